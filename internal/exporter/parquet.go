package exporter

import (
	"github.com/parquet-go/parquet-go"

	"AlphaScanner/internal/model"
)

// ParquetSaver writes results as Parquet.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(report *model.ScanReport, path string) error {
	return parquet.WriteFile(path, Rows(report))
}
