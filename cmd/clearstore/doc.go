// Command clearstore removes application data from the local key/value store.
//
// By default only keys owned by the wallet UI are removed (transaction
// history, cached invoice lists, drafts, notes and legacy rewards entries);
// anything else in the file is left alone. --all empties the store and
// --dry-run only lists what would go.
package main
