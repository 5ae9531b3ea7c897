package store

import (
    "encoding/json"
    "fmt"
    "io"
    "path/filepath"
    "strings"

    "github.com/jaminalder/codex-othello/internal/domain"
    yaml "gopkg.in/yaml.v3"
)

// Codec encodes snapshots in one text format.
type Codec interface {
    Ext() string
    Encode(w io.Writer, snap domain.Snapshot) error
    Decode(r io.Reader) (domain.Snapshot, error)
}

type jsonCodec struct{}

func (jsonCodec) Ext() string { return ".json" }

func (jsonCodec) Encode(w io.Writer, snap domain.Snapshot) error {
    enc := json.NewEncoder(w)
    enc.SetIndent("", "  ")
    return enc.Encode(snap)
}

func (jsonCodec) Decode(r io.Reader) (domain.Snapshot, error) {
    var snap domain.Snapshot
    if err := json.NewDecoder(r).Decode(&snap); err != nil {
        return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
    }
    return snap, nil
}

type yamlCodec struct{}

func (yamlCodec) Ext() string { return ".yaml" }

func (yamlCodec) Encode(w io.Writer, snap domain.Snapshot) error {
    enc := yaml.NewEncoder(w)
    enc.SetIndent(2)
    if err := enc.Encode(snap); err != nil {
        return err
    }
    return enc.Close()
}

func (yamlCodec) Decode(r io.Reader) (domain.Snapshot, error) {
    var snap domain.Snapshot
    if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
        return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
    }
    return snap, nil
}

var (
    JSON Codec = jsonCodec{}
    YAML Codec = yamlCodec{}
)

// CodecByName maps "json" and "yaml" (or "yml") to a codec.
func CodecByName(name string) (Codec, error) {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case "", "json":
        return JSON, nil
    case "yaml", "yml":
        return YAML, nil
    }
    return nil, fmt.Errorf("unknown snapshot format %q", name)
}

// CodecFor picks a codec from a file extension, defaulting to JSON.
func CodecFor(path string) Codec {
    switch strings.ToLower(filepath.Ext(path)) {
    case ".yaml", ".yml":
        return YAML
    default:
        return JSON
    }
}
