// Package exporter writes the run's output files: the three canonical
// report CSVs, summary.json, the run log, and an Excel presentation
// workbook.
//
// Canonical files are diffable contracts: plain 2-decimal numbers, no
// thousands separators, no BOM, byte-identical across runs on identical
// input. Thousands separators exist only in the presentation workbook.
package exporter
