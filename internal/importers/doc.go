// Package importers implements bulk CSV import of menu categories and items.
//
// # Flow
//
//	CSV text → tabular.DecodeRecords → Mapper → CategoryResolver → reconciler → EntityStore
//	                                                                  ↓
//	                                                             ImportResult
//
// Every data row is handled on its own: the header row is normalized into
// field keys, each row is mapped into a typed draft, menu items get their
// category reference resolved, and the reconciler decides whether the row
// updates an existing entity or creates a new one.
//
// # Matching
//
// Rows are matched against the snapshot passed by the caller, in order:
//
//  1. an explicit id that exists in the snapshot
//  2. the natural key: the case-insensitive name for categories, the
//     category id plus case-insensitive name for menu items
//
// The snapshot is not refreshed while the batch runs unless
// Options.TrackBatchWrites is set.
//
// # Failures
//
// A failing row adds "Row {n}: {message}" to ImportResult.Errors, where n is
// the line in the source file, and the batch moves on. Only a store that
// reports ErrStoreUnavailable, a cancelled context or a panic stops a batch;
// the rows left behind are counted as failed under a single message.
//
// # Example Usage
//
//	engine := importers.NewEngine(store, importers.Options{})
//	result := engine.ImportMenuItems(ctx, csvText, categories, items)
//	fmt.Println(result.SuccessCount, result.FailedCount)
package importers
