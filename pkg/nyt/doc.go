// Package nyt is a client for the crossword endpoints of the New York Times.
//
// It lists the puzzles of a series published in a date window, fetches the
// subscriber's solve state for each one and flattens the per-cell board into
// two columns. Records are kept as generic maps so every field the service
// returns reaches the output.
//
//	client := nyt.NewClient(nyt.Options{Token: token})
//	defer client.Close()
//
//	if err := client.Ping(ctx); err != nil {
//	    // token rejected
//	}
//	puzzles, err := client.FetchPuzzles(ctx, nyt.Daily, nyt.Window{Start: "2023-01-01", End: "2023-01-31"})
//	for _, p := range puzzles {
//	    p, err = client.FetchPuzzleDetail(ctx, p)
//	}
package nyt
