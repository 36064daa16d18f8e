// Package routecfg builds strada route tables from YAML manifests.
//
// A manifest names strategies, middleware and handlers; a Registry maps
// those names to Go functions. Every name is resolved at load time, so
// a typo in the manifest fails the load instead of a request:
//
//	reg := routecfg.Registry{
//	    "show_user": showUser,
//	    "logger":    middlewares.Logging(middlewares.LoggingConfig{}),
//	}
//	r, err := routecfg.LoadFile("routes.yaml", reg)
//
// The manifest schema:
//
//	strategies: [regexp, trie]
//	strict_trailing_slash: true
//	middleware: [logger]
//	routes:
//	  - methods: [GET]
//	    path: /users/:id{int}
//	    handler: show_user
//	groups:
//	  - prefix: /api/v1
//	    routes:
//	      - path: /items
//	        handler: list_items
//	mounts:
//	  - prefix: /admin
//	    table:
//	      middleware: [auth]
//	      routes:
//	        - path: /stats
//	          handler: admin_stats
//
// Watcher keeps a table in sync with its manifest file: each change
// builds a fresh Router and swaps it in atomically, so a generation is
// always fully registered before it serves and a broken edit never
// replaces a working table.
//
//	w, err := routecfg.NewWatcher("routes.yaml", reg,
//	    routecfg.WithErrorCallback(func(err error) { slog.Error("reload failed", "error", err) }))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//	http.ListenAndServe(":8080", w)
package routecfg
