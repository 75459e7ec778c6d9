package services

import (
	"catalogo_server/lib"
	"catalogo_server/structs"
	"catalogo_server/structs/tables"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownList     = errors.New("unknown list")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidValue    = errors.New("invalid value")
	ErrSubmitInFlight  = errors.New("submit already in progress")
)

// DraftMode is fixed when the draft is built
type DraftMode string

const (
	DraftCreating DraftMode = "creating"
	DraftEditing  DraftMode = "editing"
)

// Editable lists
const (
	ListImages     = "images"
	ListLabels     = "labels"
	ListAudioSlots = "audioSlots"
)

// ProductWriter persists a submitted draft
type ProductWriter interface {
	CreateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error)
	UpdateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error)
}

// LabelPatch replaces the non-nil parts of a label
type LabelPatch struct {
	Key   *string `json:"key,omitempty" mapstructure:"key"`
	Value *string `json:"value,omitempty" mapstructure:"value"`
}

// AudioSlotPatch replaces the non-nil parts of an audio slot. The id is not patchable.
type AudioSlotPatch struct {
	Title  *string `json:"title,omitempty" mapstructure:"title"`
	Author *string `json:"author,omitempty" mapstructure:"author"`
	URL    *string `json:"url,omitempty" mapstructure:"url"`
}

// ProductDraft is a private working copy of one product. Edits are applied in
// the order they are issued; nothing reaches persistence before Submit.
type ProductDraft struct {
	mu         sync.Mutex
	mode       DraftMode
	product    *tables.Product
	submitting atomic.Bool
}

// NewCreateDraft starts a draft from the blank template
func NewCreateDraft() *ProductDraft {
	return &ProductDraft{mode: DraftCreating, product: tables.NewBlankProduct()}
}

// NewEditDraft starts a draft from a deep copy of an existing product
func NewEditDraft(product *tables.Product) *ProductDraft {
	return &ProductDraft{mode: DraftEditing, product: product.Clone()}
}

func (d *ProductDraft) Mode() DraftMode {
	return d.mode
}

func (d *ProductDraft) ProductID() uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.product.ID
}

// Snapshot returns a deep copy of the current draft
func (d *ProductDraft) Snapshot() *tables.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.product.Clone()
}

// ============================================================================
// Scalar fields
// ============================================================================

type fieldSetter func(p *tables.Product, value any) error

var draftFields = map[string]fieldSetter{
	"name":              setString(func(p *tables.Product) *string { return &p.Name }),
	"technicalName":     setString(func(p *tables.Product) *string { return &p.TechnicalName }),
	"classification":    setString(func(p *tables.Product) *string { return &p.Classification }),
	"benefits":          setString(func(p *tables.Product) *string { return &p.Benefits }),
	"history":           setString(func(p *tables.Product) *string { return &p.History }),
	"composition":       setString(func(p *tables.Product) *string { return &p.Composition }),
	"safetyRequirement": setString(func(p *tables.Product) *string { return &p.SafetyRequirement }),

	"stock_quantity":          setCounter(func(p *tables.Product) *int { return &p.StockQuantity }),
	"monthly_production_goal": setCounter(func(p *tables.Product) *int { return &p.MonthlyProductionGoal }),

	"isVisible": func(p *tables.Product, value any) error {
		v, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("%w: isVisible: %v", ErrInvalidValue, err)
		}
		p.IsVisible = v
		return nil
	},

	"production_type": func(p *tables.Product, value any) error {
		raw, err := cast.ToStringE(value)
		if err != nil {
			return fmt.Errorf("%w: production_type: %v", ErrInvalidValue, err)
		}
		next := structs.ProductionType(raw)
		if !next.IsValid() {
			return fmt.Errorf("%w: production_type %q", ErrInvalidValue, raw)
		}
		wasSet := p.ProductionType.IsSet()
		p.ProductionType = next
		// Turning production on makes the size editor available
		if !wasSet && next.IsSet() && p.VariationData == nil {
			p.VariationData = &tables.VariationData{Sizes: []string{}}
		}
		return nil
	},

	"product_type": func(p *tables.Product, value any) error {
		raw, err := cast.ToStringE(value)
		if err != nil {
			return fmt.Errorf("%w: product_type: %v", ErrInvalidValue, err)
		}
		next := structs.ProductType(raw)
		if !next.IsValid() {
			return fmt.Errorf("%w: product_type %q", ErrInvalidValue, raw)
		}
		p.ProductType = next
		return nil
	},
}

func setString(field func(p *tables.Product) *string) fieldSetter {
	return func(p *tables.Product, value any) error {
		v, err := cast.ToStringE(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		*field(p) = v
		return nil
	}
}

func setCounter(field func(p *tables.Product) *int) fieldSetter {
	return func(p *tables.Product, value any) error {
		v, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		if v < 0 {
			return fmt.Errorf("%w: must not be negative", ErrInvalidValue)
		}
		*field(p) = v
		return nil
	}
}

// SetField replaces one scalar field. Strings such as "12" or "true" coming
// from forms are coerced to the field's type.
func (d *ProductDraft) SetField(name string, value any) error {
	setter, ok := draftFields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return setter(d.product, value)
}

// ============================================================================
// Lists
// ============================================================================

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, length)
	}
	return nil
}

// SetListItem patches the element at index in place
func (d *ProductDraft) SetListItem(list string, index int, patch any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.product
	switch list {
	case ListImages:
		if err := checkIndex(index, len(p.Images)); err != nil {
			return err
		}
		url, err := cast.ToStringE(patch)
		if err != nil {
			return fmt.Errorf("%w: image: %v", ErrInvalidValue, err)
		}
		p.Images[index] = url

	case ListLabels:
		if err := checkIndex(index, len(p.Labels)); err != nil {
			return err
		}
		lp, err := toLabelPatch(patch)
		if err != nil {
			return err
		}
		applyLabelPatch(&p.Labels[index], lp)

	case ListAudioSlots:
		if err := checkIndex(index, len(p.AudioSlots)); err != nil {
			return err
		}
		ap, err := toAudioSlotPatch(patch)
		if err != nil {
			return err
		}
		applyAudioSlotPatch(&p.AudioSlots[index], ap)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownList, list)
	}
	return nil
}

// AppendListItem adds value at the end of the list and returns its index.
// Audio slots always get a fresh id; a nil value appends an empty element.
func (d *ProductDraft) AppendListItem(list string, value any) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.product
	switch list {
	case ListImages:
		url := ""
		if value != nil {
			v, err := cast.ToStringE(value)
			if err != nil {
				return 0, fmt.Errorf("%w: image: %v", ErrInvalidValue, err)
			}
			url = v
		}
		p.Images = append(p.Images, url)
		return len(p.Images) - 1, nil

	case ListLabels:
		var label tables.Label
		if value != nil {
			lp, err := toLabelPatch(value)
			if err != nil {
				return 0, err
			}
			applyLabelPatch(&label, lp)
		}
		p.Labels = append(p.Labels, label)
		return len(p.Labels) - 1, nil

	case ListAudioSlots:
		slot := tables.AudioSlot{ID: uuid.NewString()}
		if value != nil {
			ap, err := toAudioSlotPatch(value)
			if err != nil {
				return 0, err
			}
			applyAudioSlotPatch(&slot, ap)
		}
		p.AudioSlots = append(p.AudioSlots, slot)
		return len(p.AudioSlots) - 1, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownList, list)
}

// RemoveListItem drops exactly the element at index; the rest keep their order
func (d *ProductDraft) RemoveListItem(list string, index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.product
	switch list {
	case ListImages:
		return removeAt(&p.Images, index)
	case ListLabels:
		return removeAt(&p.Labels, index)
	case ListAudioSlots:
		return removeAt(&p.AudioSlots, index)
	}
	return fmt.Errorf("%w: %s", ErrUnknownList, list)
}

func removeAt[E any](s *[]E, index int) error {
	if err := checkIndex(index, len(*s)); err != nil {
		return err
	}
	*s = slices.Delete(*s, index, index+1)
	return nil
}

func toLabelPatch(value any) (LabelPatch, error) {
	switch v := value.(type) {
	case LabelPatch:
		return v, nil
	case *LabelPatch:
		if v == nil {
			return LabelPatch{}, nil
		}
		return *v, nil
	case tables.Label:
		return LabelPatch{Key: &v.Key, Value: &v.Value}, nil
	case map[string]any:
		var lp LabelPatch
		if err := decodeStrict(v, &lp); err != nil {
			return LabelPatch{}, fmt.Errorf("%w: label: %v", ErrInvalidValue, err)
		}
		return lp, nil
	}
	return LabelPatch{}, fmt.Errorf("%w: label patch of type %T", ErrInvalidValue, value)
}

func applyLabelPatch(label *tables.Label, lp LabelPatch) {
	if lp.Key != nil {
		label.Key = *lp.Key
	}
	if lp.Value != nil {
		label.Value = *lp.Value
	}
}

func toAudioSlotPatch(value any) (AudioSlotPatch, error) {
	switch v := value.(type) {
	case AudioSlotPatch:
		return v, nil
	case *AudioSlotPatch:
		if v == nil {
			return AudioSlotPatch{}, nil
		}
		return *v, nil
	case tables.AudioSlot:
		return AudioSlotPatch{Title: &v.Title, Author: &v.Author, URL: &v.URL}, nil
	case map[string]any:
		// The id belongs to the slot, not to the caller
		fields := make(map[string]any, len(v))
		for k, val := range v {
			if k != "id" {
				fields[k] = val
			}
		}
		var ap AudioSlotPatch
		if err := decodeStrict(fields, &ap); err != nil {
			return AudioSlotPatch{}, fmt.Errorf("%w: audio slot: %v", ErrInvalidValue, err)
		}
		return ap, nil
	}
	return AudioSlotPatch{}, fmt.Errorf("%w: audio slot patch of type %T", ErrInvalidValue, value)
}

func applyAudioSlotPatch(slot *tables.AudioSlot, ap AudioSlotPatch) {
	if ap.Title != nil {
		slot.Title = *ap.Title
	}
	if ap.Author != nil {
		slot.Author = *ap.Author
	}
	if ap.URL != nil {
		slot.URL = *ap.URL
	}
}

// decodeStrict decodes a JSON object into a patch struct, rejecting unknown keys
func decodeStrict(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// ============================================================================
// Size variations
// ============================================================================

// ToggleSize flips membership of size in variation_data.sizes and then runs
// EnableBulkVariations. Toggling a size off leaves product_type at bulk.
func (d *ProductDraft) ToggleSize(size string) error {
	size = strings.TrimSpace(size)
	if size == "" {
		return fmt.Errorf("%w: empty size", ErrInvalidValue)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.product
	if p.VariationData == nil {
		p.VariationData = &tables.VariationData{Sizes: []string{}}
	}
	if i := slices.Index(p.VariationData.Sizes, size); i >= 0 {
		p.VariationData.Sizes = slices.Delete(p.VariationData.Sizes, i, i+1)
	} else {
		p.VariationData.Sizes = append(p.VariationData.Sizes, size)
	}

	enableBulkVariations(p)
	return nil
}

// EnableBulkVariations marks the product as sold in bulk sizes
func (d *ProductDraft) EnableBulkVariations() {
	d.mu.Lock()
	defer d.mu.Unlock()
	enableBulkVariations(d.product)
}

func enableBulkVariations(p *tables.Product) {
	p.ProductType = structs.ProductTypeBulk
	if p.VariationData == nil {
		p.VariationData = &tables.VariationData{Sizes: []string{}}
	}
}

// ============================================================================
// Submit
// ============================================================================

// ValidateDraft checks the fields required at submit time. Nothing else is validated.
func ValidateDraft(p *tables.Product) error {
	var fields []lib.FieldError
	if strings.TrimSpace(p.Name) == "" {
		fields = append(fields, lib.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(p.Classification) == "" {
		fields = append(fields, lib.FieldError{Field: "classification", Message: "is required"})
	}
	if len(fields) > 0 {
		return lib.NewValidationError(fields...)
	}
	return nil
}

// Submit writes the full draft through writer: create in creating mode, update
// in editing mode. A validation failure performs no write and leaves the draft
// as it was. Only one submit may be in flight per draft.
func (d *ProductDraft) Submit(ctx context.Context, writer ProductWriter) (*tables.Product, error) {
	if !d.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer d.submitting.Store(false)

	snapshot := d.Snapshot()
	if err := ValidateDraft(snapshot); err != nil {
		return nil, err
	}

	if d.mode == DraftCreating {
		return writer.CreateProduct(ctx, snapshot)
	}
	return writer.UpdateProduct(ctx, snapshot)
}
