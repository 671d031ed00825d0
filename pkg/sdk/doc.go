// Package catalogsearch embeds the catalog search engine in a Go program
// without the HTTP layer.
//
// The client loads the product catalog from PostgreSQL into an immutable
// in-memory snapshot, refreshes it in the background and answers faceted
// searches against whichever snapshot is current.
//
//	client, _ := catalogsearch.New(ctx,
//	    catalogsearch.WithPostgres("postgres://search@localhost/catalog"),
//	    catalogsearch.WithRedisCache("localhost:6379", "", time.Minute),
//	)
//	defer client.Close()
//
//	res, _ := client.Search().
//	    Query("samsung ssd").
//	    Mode(catalogsearch.ModeSmart).
//	    Category(7).
//	    Price(50, 200).
//	    Facets().
//	    Do(ctx)
package catalogsearch
