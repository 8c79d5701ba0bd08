package dictionary

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vitalvas/radkit/pkg/log"
)

type templateKey struct {
	vendorID int
	typ      int
}

// Dictionary maps attribute codes and names to templates and keeps vendor metadata.
// It is safe for concurrent use; additions are append-only.
type Dictionary struct {
	mu sync.RWMutex

	vendorsByID   map[int]*Vendor
	vendorsByName map[string]*Vendor
	byCode        map[templateKey]*AttributeTemplate
	byName        map[string]*AttributeTemplate

	logger log.Logger
}

// Option configures a Dictionary.
type Option func(*Dictionary)

// WithLogger sets the logger used to report duplicate definitions.
func WithLogger(logger log.Logger) Option {
	return func(d *Dictionary) {
		d.logger = logger
	}
}

// New creates an empty dictionary.
func New(opts ...Option) *Dictionary {
	d := &Dictionary{
		vendorsByID:   make(map[int]*Vendor),
		vendorsByName: make(map[string]*Vendor),
		byCode:        make(map[templateKey]*AttributeTemplate),
		byName:        make(map[string]*AttributeTemplate),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = log.OrDiscard(d.logger)
	return d
}

// AddVendor registers a vendor. Re-adding an identical vendor is a no-op;
// a different vendor with the same ID is rejected.
func (d *Dictionary) AddVendor(v *Vendor) error {
	if v == nil {
		return fmt.Errorf("%w: vendor must not be nil", ErrInvalidVendor)
	}
	if err := v.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.vendorsByID[v.ID]; ok {
		if *existing == *v {
			d.logger.Infof("ignoring duplicate vendor definition: %s", v)
			return nil
		}
		return fmt.Errorf("%w: vendor code %d (adding %s, already set to %s)", ErrDuplicateVendor, v.ID, v, existing)
	}

	vc := *v
	d.vendorsByID[v.ID] = &vc
	d.vendorsByName[v.Name] = &vc
	return nil
}

// AddTemplate registers an attribute template.
//
// A template whose name is already taken by an equal template is ignored, and
// by a different template is rejected. A template reusing an existing
// (vendor, type) pair replaces the previous one for code lookups.
func (d *Dictionary) AddTemplate(t *AttributeTemplate) error {
	if t == nil {
		return fmt.Errorf("%w: template must not be nil", ErrInvalidTemplate)
	}

	tc := *t
	if err := tc.Validate(); err != nil {
		return err
	}
	tc.Values = make(map[string]uint32, len(t.Values))
	for k, v := range t.Values {
		tc.Values[k] = v
	}
	tc.names = valueNames(tc.Values)

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.byName[tc.Name]; ok {
		if existing.Equal(&tc) {
			d.logger.Infof("ignoring duplicate attribute definition: %s", existing)
			return nil
		}
		return fmt.Errorf("%w: %q, existing attribute not equal to new attribute", ErrDuplicateName, tc.Name)
	}
	d.byName[tc.Name] = &tc

	key := templateKey{vendorID: tc.VendorID, typ: tc.Type}
	if existing, ok := d.byCode[key]; ok {
		d.logger.Warnf("duplicate type code [%d,%d], overwriting %s with %s",
			tc.VendorID, tc.Type, existing.Name, tc.Name)
	}
	d.byCode[key] = &tc
	return nil
}

// AddTemplates registers templates in order, stopping at the first error.
func (d *Dictionary) AddTemplates(templates ...*AttributeTemplate) error {
	for _, t := range templates {
		if err := d.AddTemplate(t); err != nil {
			return err
		}
	}
	return nil
}

// Template looks up a template by vendor ID and type code.
// Lookups return copies; changing them does not affect the dictionary.
func (d *Dictionary) Template(vendorID, typ int) (*AttributeTemplate, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.byCode[templateKey{vendorID: vendorID, typ: typ}]
	if !ok {
		return nil, false
	}
	return t.clone(), true
}

// TemplateByName looks up a template by its globally unique name.
func (d *Dictionary) TemplateByName(name string) (*AttributeTemplate, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return t.clone(), true
}

// Vendor looks up a vendor by ID.
func (d *Dictionary) Vendor(id int) (*Vendor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.vendorsByID[id]
	if !ok {
		return nil, false
	}
	return v.clone(), true
}

// VendorByName looks up a vendor by name.
func (d *Dictionary) VendorByName(name string) (*Vendor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.vendorsByName[name]
	if !ok {
		return nil, false
	}
	return v.clone(), true
}

// Vendors returns all vendors ordered by ID.
func (d *Dictionary) Vendors() []*Vendor {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Vendor, 0, len(d.vendorsByID))
	for _, v := range d.vendorsByID {
		out = append(out, v.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Templates returns all templates currently reachable by code, ordered by vendor and type.
func (d *Dictionary) Templates() []*AttributeTemplate {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*AttributeTemplate, 0, len(d.byCode))
	for _, t := range d.byCode {
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VendorID != out[j].VendorID {
			return out[i].VendorID < out[j].VendorID
		}
		return out[i].Type < out[j].Type
	})
	return out
}
