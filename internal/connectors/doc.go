// Package connectors provides implementations of the CorpusSource interface.
// Each connector knows how to enumerate and watch a corpus of course
// material from a specific location type.
//
// The filesystem connector is currently the only source: corpora are
// downloaded to disk by the scraper before classification.
package connectors
