package models

import "github.com/GitRowin/orderedmapjson"

// Record is an insertion-ordered mapping from string keys to JSON values.
// Key order survives unmarshalling, which is what gives the CSV output its
// first-seen column order.
type Record = orderedmapjson.AnyOrderedMap

// NewRecord creates an empty Record.
func NewRecord() *Record {
	record := orderedmapjson.NewAnyOrderedMap()
	record.SetEscapeHTML(false)
	return record
}

// Document holds the parsed JSON input in a normalized form: a single root
// object becomes a one-element slice, a root array becomes one entry per
// element.
type Document struct {
	Records     []*Record
	RootIsArray bool
}

// ToMap converts a record to a plain map, discarding key order.
func ToMap(record *Record) map[string]interface{} {
	recordMap := make(map[string]interface{})
	for k, v := range record.AllFromFront() {
		recordMap[k] = v
	}
	return recordMap
}
