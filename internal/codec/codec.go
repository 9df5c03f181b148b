package codec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
)

// Record type tags used by the bundled codecs.
const (
	TypeMemo    = "memo"
	TypeContact = "contact"
	TypeEvent   = "event"
	TypeTodo    = "todo"
)

const categoryKey = "category"

// fieldCodec is a RecordCodec over a fixed list of named string fields.
// When plainText is set the backend form is the first field's raw text;
// otherwise it is a YAML mapping of every field plus the category name.
type fieldCodec struct {
	recordType string
	fields     []string
	plainText  bool
	describe   func(values map[string]string) string
}

// NewMemoCodec returns the codec for memo pad records. The backend form is
// the memo text; its first line is the description.
func NewMemoCodec() RecordCodec {
	return &fieldCodec{
		recordType: TypeMemo,
		fields:     []string{"text"},
		plainText:  true,
		describe: func(v map[string]string) string {
			return firstLine(v["text"])
		},
	}
}

// NewContactCodec returns the codec for address book records.
func NewContactCodec() RecordCodec {
	return &fieldCodec{
		recordType: TypeContact,
		fields:     []string{"lastName", "firstName", "company", "phone", "email", "address", "city", "note"},
		describe: func(v map[string]string) string {
			name := strings.TrimSpace(v["firstName"] + " " + v["lastName"])
			if name == "" {
				return strings.TrimSpace(v["company"])
			}
			return name
		},
	}
}

// NewEventCodec returns the codec for date book records.
func NewEventCodec() RecordCodec {
	return &fieldCodec{
		recordType: TypeEvent,
		fields:     []string{"description", "start", "end", "location", "note"},
		describe: func(v map[string]string) string {
			return strings.TrimSpace(v["description"])
		},
	}
}

// NewTodoCodec returns the codec for to-do records.
func NewTodoCodec() RecordCodec {
	return &fieldCodec{
		recordType: TypeTodo,
		fields:     []string{"description", "due", "priority", "completed", "note"},
		describe: func(v map[string]string) string {
			return strings.TrimSpace(v["description"])
		},
	}
}

// ForType returns a fresh codec for the given record type tag.
func ForType(recordType string) (RecordCodec, error) {
	switch recordType {
	case TypeMemo:
		return NewMemoCodec(), nil
	case TypeContact:
		return NewContactCodec(), nil
	case TypeEvent:
		return NewEventCodec(), nil
	case TypeTodo:
		return NewTodoCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecordType, recordType)
	}
}

func (c *fieldCodec) RecordType() string {
	return c.recordType
}

func (c *fieldCodec) DeviceToBackend(rec models.DeviceRecord, cc Context) (models.BackendRecord, error) {
	if len(rec.RawData) == 0 {
		return models.BackendRecord{}, fmt.Errorf("device record %d: %w", rec.ID, ErrEmptyRecord)
	}

	values := unpackFields(c.fields, rec.RawData)
	data, err := c.encodeBackend(values, CategoryName(cc.Categories, rec.Category))
	if err != nil {
		return models.BackendRecord{}, err
	}

	return models.BackendRecord{
		Type:        c.recordType,
		DisplayName: c.displayName(values),
		Data:        data,
		ContentHash: utils.ContentHash(data),
	}, nil
}

func (c *fieldCodec) BackendToDevice(rec models.BackendRecord, cc Context) (models.DeviceRecord, error) {
	if rec.Type != "" && rec.Type != c.recordType {
		return models.DeviceRecord{}, fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, c.recordType, rec.Type)
	}

	values, category, err := c.decodeBackend(rec.Data)
	if err != nil {
		return models.DeviceRecord{}, fmt.Errorf("backend record %s: %w", rec.ID, err)
	}

	index := cc.DeviceCategory
	if strings.TrimSpace(category) != "" {
		index = CategoryIndex(cc.Categories, category)
	}

	return models.DeviceRecord{
		Category: index,
		RawData:  packFields(c.fields, values),
	}, nil
}

func (c *fieldCodec) RecordsEqual(d models.DeviceRecord, b models.BackendRecord) bool {
	bv, _, err := c.decodeBackend(b.Data)
	if err != nil {
		return false
	}
	return fieldsEqual(c.fields, unpackFields(c.fields, d.RawData), bv)
}

func (c *fieldCodec) DescriptionOf(rec models.DeviceRecord) string {
	return c.describe(unpackFields(c.fields, rec.RawData))
}

func (c *fieldCodec) displayName(values map[string]string) string {
	if name := c.describe(values); name != "" {
		return name
	}
	return "Untitled"
}

func (c *fieldCodec) encodeBackend(values map[string]string, category string) ([]byte, error) {
	if c.plainText {
		return []byte(values[c.fields[0]]), nil
	}

	doc := make(map[string]string, len(c.fields)+1)
	for _, name := range c.fields {
		doc[name] = values[name]
	}
	doc[categoryKey] = category

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", c.recordType, err)
	}
	return data, nil
}

func (c *fieldCodec) decodeBackend(data []byte) (map[string]string, string, error) {
	if c.plainText {
		return map[string]string{c.fields[0]: string(data)}, "", nil
	}

	doc := make(map[string]string)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	values := make(map[string]string, len(c.fields))
	for _, name := range c.fields {
		values[name] = doc[name]
	}
	return values, doc[categoryKey], nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
