/*
Package qbittorrent is a typed client for the qBittorrent WebUI API (v2).

Every call goes through one pipeline: wait for a rate limiter slot, send a
single HTTP request carrying the session cookie, then normalise the response
either as a plain-text status marker ("Ok." / "Fails.") or as JSON wrapped in
a Response. Failures are reported as *Error values with an ErrorKind; nothing
is retried.

Quick start:

	client, err := qbittorrent.New(qbittorrent.Options{
	    Host:     "localhost:8080",
	    Username: "admin",
	    Password: "adminadmin",
	})
	if err != nil {
	    log.Fatal(err)
	}

	status, err := client.Login(ctx)
	if err != nil || !status.IsSuccess() {
	    log.Fatalf("login: %v %v", status, err)
	}

	response, err := client.GetTorrents(ctx, qbittorrent.FilterOptions{
	    Limit: qbittorrent.Ref(20),
	})
	if err != nil {
	    log.Fatal(err)
	}
	torrents, err := response.GetResult("list torrents")
*/
package qbittorrent
