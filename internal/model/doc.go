// Package model defines the data types shared by the fetch and load stages.
//
// Conventions:
//   - Symbol is the only required attribute of a ticker; everything else is nullable
//   - Partition keys are UTC calendar dates rendered as YYYY-MM-DD
//   - Warehouse column names are upper case and always quoted by the store
package model
