package dictionary

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileVendor is the on-disk form of a vendor block.
type fileVendor struct {
	ID         int                  `yaml:"id"`
	Name       string               `yaml:"name"`
	TypeSize   *int                 `yaml:"type_size"`
	LengthSize *int                 `yaml:"length_size"`
	Attributes []*AttributeTemplate `yaml:"attributes"`
}

// fileDictionary is the on-disk form of a dictionary file.
type fileDictionary struct {
	Attributes []*AttributeTemplate `yaml:"attributes"`
	Vendors    []*fileVendor        `yaml:"vendors"`
}

// LoadYAML reads a YAML (or JSON) dictionary document and merges it into d.
//
//	attributes:
//	  - {id: 1, name: User-Name, data_type: string}
//	vendors:
//	  - id: 529
//	    name: Ascend
//	    attributes:
//	      - {id: 214, name: Ascend-Send-Secret, data_type: string, encrypt: 3}
func LoadYAML(r io.Reader, d *Dictionary) error {
	var doc fileDictionary

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode dictionary: %w", err)
	}

	for _, t := range doc.Attributes {
		t.VendorID = NoVendor
		if err := d.AddTemplate(t); err != nil {
			return err
		}
	}

	for _, fv := range doc.Vendors {
		v := &Vendor{ID: fv.ID, Name: fv.Name, TypeSize: 1, LengthSize: 1}
		if fv.TypeSize != nil {
			v.TypeSize = *fv.TypeSize
		}
		if fv.LengthSize != nil {
			v.LengthSize = *fv.LengthSize
		}
		if err := d.AddVendor(v); err != nil {
			return err
		}
		for _, t := range fv.Attributes {
			t.VendorID = v.ID
			if err := d.AddTemplate(t); err != nil {
				return fmt.Errorf("vendor %s: %w", v.Name, err)
			}
		}
	}

	return nil
}

// FileSource loads dictionary files from disk.
type FileSource struct {
	// Paths lists dictionary files loaded in order.
	Paths []string

	// Dir is scanned for *.yaml, *.yml and *.json files, loaded in lexical order after Paths.
	Dir string
}

// Load merges every configured file into d.
func (fs *FileSource) Load(ctx context.Context, d *Dictionary) error {
	paths := append([]string(nil), fs.Paths...)

	if fs.Dir != "" {
		dirFiles, err := scanDirectory(fs.Dir)
		if err != nil {
			return fmt.Errorf("failed to scan directory %s: %w", fs.Dir, err)
		}
		paths = append(paths, dirFiles...)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := loadFile(path, d); err != nil {
			return fmt.Errorf("failed to load file %s: %w", path, err)
		}
	}

	return nil
}

func loadFile(path string, d *Dictionary) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return LoadYAML(f, d)
}

func scanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
