package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pim-sync/internal/adapter"
	"github.com/MKhiriev/go-pim-sync/internal/codec"
	"github.com/MKhiriev/go-pim-sync/internal/config"
	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/service"
	"github.com/MKhiriev/go-pim-sync/internal/store"
)

// conduitSpec binds a conduit ID to its device collection and record type.
type conduitSpec struct {
	id               string
	displayName      string
	deviceCollection string
	recordType       string
}

var conduitSpecs = []conduitSpec{
	{id: "memo", displayName: "Memos", deviceCollection: "MemoDB", recordType: codec.TypeMemo},
	{id: "contacts", displayName: "Contacts", deviceCollection: "AddressDB", recordType: codec.TypeContact},
	{id: "calendar", displayName: "Calendar", deviceCollection: "DatebookDB", recordType: codec.TypeEvent},
	{id: "todo", displayName: "To Do", deviceCollection: "ToDoDB", recordType: codec.TypeTodo},
}

func backendCollections() map[string]string {
	out := make(map[string]string, len(conduitSpecs))
	for _, s := range conduitSpecs {
		out[s.id] = s.recordType
	}
	return out
}

// newLink returns the configured device link and a release function. A
// bridge address wins over a device image.
func newLink(ctx context.Context, cfg config.Device, userName string, log *logger.Logger) (device.Link, func() error, error) {
	if cfg.BridgeAddress != "" {
		link, err := adapter.NewHTTPDeviceLink(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		if err = link.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect to bridge: %w", err)
		}
		return link, func() error { link.Close(); return nil }, nil
	}

	link, err := device.OpenFileLink(cfg.ImagePath, userName)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("image", link.Path()).Str("user", link.UserName()).Msg("using device image")
	return link, link.Save, nil
}

// newBackend returns the configured backend, the directories a watcher
// should observe (file backend only) and a release function.
func newBackend(ctx context.Context, cfg config.Backend, log *logger.Logger) (store.Backend, []string, func() error, error) {
	switch cfg.Kind {
	case config.BackendFile:
		b := store.NewFileBackend(cfg.DataDir, backendCollections(), log)
		return b, b.CollectionDirs(), func() error { return nil }, nil

	case config.BackendSQL:
		db, err := store.NewConnect(ctx, cfg.DSN, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect backend database: %w", err)
		}
		if err = db.Migrate(); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("migrate backend database: %w", err)
		}
		b := store.NewSQLBackend(db, log)
		for id, recordType := range backendCollections() {
			if err = b.EnsureCollection(ctx, id, recordType); err != nil {
				db.Close()
				return nil, nil, nil, fmt.Errorf("ensure collection %s: %w", id, err)
			}
		}
		return b, nil, db.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Kind)
	}
}

// registerConduits registers every bundled conduit, enabling the ones listed
// in enabled.
func registerConduits(engine *service.SyncEngine, enabled []string, log *logger.Logger) error {
	on := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		on[id] = true
	}

	for _, s := range conduitSpecs {
		rc, err := codec.ForType(s.recordType)
		if err != nil {
			return err
		}
		c := service.NewConduit(service.ConduitInfo{
			ID:               s.id,
			DisplayName:      s.displayName,
			DeviceCollection: s.deviceCollection,
			RecordType:       s.recordType,
		}, rc, log)
		if err = engine.RegisterConduit(c); err != nil {
			return err
		}
		if err = engine.SetConduitEnabled(s.id, on[s.id]); err != nil {
			return err
		}
	}
	return nil
}
