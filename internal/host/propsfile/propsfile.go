// Package propsfile lets an embedding host drive the shell's props by
// writing a YAML file:
//
//	url: https://meet.example.com/standup   # or a mapping, see descriptor
//	default_url: https://meet.example.com
//	timestamp: 1718000000
//	extra:
//	  theme: dark
package propsfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/jask/appshell/internal/lifecycle"
	"github.com/jask/appshell/internal/urlresolve"
)

type document struct {
	URL        yaml.Node      `yaml:"url"`
	DefaultURL string         `yaml:"default_url"`
	Timestamp  any            `yaml:"timestamp"`
	Extra      map[string]any `yaml:"extra"`
}

type descriptor struct {
	URL       string            `yaml:"url"`
	ServerURL string            `yaml:"server_url"`
	Scheme    string            `yaml:"scheme"`
	Host      string            `yaml:"host"`
	Room      string            `yaml:"room"`
	JWT       string            `yaml:"jwt"`
	Config    map[string]string `yaml:"config"`
}

// Parse decodes a props document.
func Parse(data []byte) (lifecycle.Props, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return lifecycle.Props{}, fmt.Errorf("decode props: %w", err)
	}
	props := lifecycle.Props{
		DefaultURL: doc.DefaultURL,
		Timestamp:  doc.Timestamp,
		Extra:      doc.Extra,
	}
	switch doc.URL.Kind {
	case 0:
	case yaml.ScalarNode:
		if doc.URL.Tag != "!!null" {
			props.URL = doc.URL.Value
		}
	case yaml.MappingNode:
		var d descriptor
		if err := doc.URL.Decode(&d); err != nil {
			return lifecycle.Props{}, fmt.Errorf("decode url descriptor: %w", err)
		}
		props.URL = urlresolve.Descriptor(d)
	default:
		return lifecycle.Props{}, fmt.Errorf("decode props: url must be a string or a mapping")
	}
	return props, nil
}

// Read loads props from path.
func Read(path string) (lifecycle.Props, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lifecycle.Props{}, err
	}
	return Parse(data)
}

// Watch calls onChange with the file's props every time it is written,
// until ctx is done. The directory is watched so editors that replace the
// file are picked up.
func Watch(ctx context.Context, path string, onChange func(lifecycle.Props), log logrus.FieldLogger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			props, err := Read(abs)
			if err != nil {
				log.WithError(err).WithField("path", abs).Warn("ignoring unreadable props file")
				continue
			}
			onChange(props)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("props watcher")
		}
	}
}
