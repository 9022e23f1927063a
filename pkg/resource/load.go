package resource

import (
	"compress/gzip"
	"fmt"
	"io"
	"time"

	"github.com/333fps/vista-sdk/internal/logger"
	"github.com/333fps/vista-sdk/internal/metrics"
	"github.com/333fps/vista-sdk/pkg/gmod"
	"github.com/333fps/vista-sdk/pkg/location"
	"github.com/333fps/vista-sdk/pkg/versioning"
	"github.com/333fps/vista-sdk/pkg/viserr"
)

// Source opens a named resource for reading. The caller supplies the
// implementation handed to NewLoader (DirSource reads a local directory);
// Loader only ever consumes the interface, never a filesystem path
// directly, so the resource-load concern stays testable without touching
// disk.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// Loader gunzips and decodes gmod/locations/versioning resources obtained
// from a Source, logging and recording metrics for every load attempt.
type Loader struct {
	source  Source
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewLoader constructs a Loader. log and m may be nil, in which case loads
// proceed unobserved.
func NewLoader(source Source, log *logger.Logger, m *metrics.Metrics) *Loader {
	return &Loader{source: source, log: log, metrics: m}
}

func (l *Loader) readAndGunzip(name string) ([]byte, error) {
	rc, err := l.source.Open(name)
	if err != nil {
		return nil, viserr.Wrap(viserr.ResourceMissing, fmt.Sprintf("resource: opening %s", name), err)
	}
	defer rc.Close()

	gz, err := gzip.NewReader(rc)
	if err != nil {
		return nil, viserr.Wrap(viserr.DecodeError, fmt.Sprintf("resource: gunzipping %s", name), err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, viserr.Wrap(viserr.DecodeError, fmt.Sprintf("resource: reading %s", name), err)
	}
	return data, nil
}

func (l *Loader) observe(resource string, start time.Time, byteCount int, err error) {
	duration := time.Since(start)
	if l.log != nil {
		l.log.ResourceLogger(resource).LogResourceLoad(resource, duration, byteCount, err)
	}
	if l.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		l.metrics.RecordResourceLoad(resource, status, duration, byteCount)
	}
}

// LoadGmod fetches and decodes "gmod-vis-<visVersion>.json.gz".
func (l *Loader) LoadGmod(visVersion string) (*gmod.Gmod, error) {
	start := time.Now()
	name := "gmod-vis-" + visVersion + ".json.gz"

	data, err := l.readAndGunzip(name)
	if err != nil {
		l.observe(name, start, 0, err)
		return nil, err
	}

	release, items, relations, err := DecodeGmod(data)
	if err != nil {
		l.observe(name, start, len(data), err)
		return nil, err
	}

	g, err := gmod.New(release, items, relations)
	l.observe(name, start, len(data), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// LoadLocations fetches and decodes "locations-vis-<visVersion>.json.gz".
func (l *Loader) LoadLocations(visVersion string) (*location.Locations, error) {
	start := time.Now()
	name := "locations-vis-" + visVersion + ".json.gz"

	data, err := l.readAndGunzip(name)
	if err != nil {
		l.observe(name, start, 0, err)
		return nil, err
	}

	release, items, err := DecodeLocations(data)
	if err != nil {
		l.observe(name, start, len(data), err)
		return nil, err
	}

	locs, err := location.New(release, items)
	l.observe(name, start, len(data), err)
	if err != nil {
		return nil, err
	}
	return locs, nil
}

// LoadVersioning fetches and decodes "gmod-vis-versioning.json.gz".
func (l *Loader) LoadVersioning() (*versioning.GmodVersioning, error) {
	start := time.Now()
	const name = "gmod-vis-versioning.json.gz"

	data, err := l.readAndGunzip(name)
	if err != nil {
		l.observe(name, start, 0, err)
		return nil, err
	}

	changes, err := DecodeVersioning(data)
	if err != nil {
		l.observe(name, start, len(data), err)
		return nil, err
	}

	v, err := versioning.New(changes)
	l.observe(name, start, len(data), err)
	if err != nil {
		return nil, err
	}
	return v, nil
}
