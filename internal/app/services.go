// Package app provides service initialization.
package app

import (
	"github.com/guttosm/cargo-service/config"
	"github.com/guttosm/cargo-service/internal/service"
	"github.com/guttosm/cargo-service/internal/spreadsheet"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Importer *service.ImporterService
	Reader   *spreadsheet.Reader
	Cargo    service.CargoService
	Dispatch service.DispatchService
}

// InitializeServices builds the import, reception and dispatch services.
// Without a database the repositories stay nil and persistence-backed
// operations report the service as unavailable.
func InitializeServices(cfg config.Config, db *DatabaseComponents) *ServiceComponents {
	var opts []service.ImporterOption
	if cfg.Import.HeaderScanRows > 0 {
		opts = append(opts, service.WithHeaderScanRows(cfg.Import.HeaderScanRows))
	}
	if cfg.Cache.Size > 0 {
		opts = append(opts, service.WithImportCache(cfg.Cache.Size, cfg.Cache.TTL))
	}
	importer := service.NewImporter(opts...)

	var readerOpts []spreadsheet.Option
	if cfg.Import.CSVCharset != "" {
		readerOpts = append(readerOpts, spreadsheet.WithCharset(cfg.Import.CSVCharset))
	}

	var cargoRepos service.CargoRepositories
	var dispatchRepos service.DispatchRepositories
	if db != nil {
		cargoRepos = service.CargoRepositories{Items: db.Items, Summary: db.Summary, Parcels: db.Parcels}
		dispatchRepos = service.DispatchRepositories{Items: db.Items, Parcels: db.Parcels, Carts: db.Carts}
	}

	return &ServiceComponents{
		Importer: importer,
		Reader:   spreadsheet.NewReader(readerOpts...),
		Cargo:    service.NewCargoService(importer, cargoRepos),
		Dispatch: service.NewDispatchService(dispatchRepos),
	}
}
