package fs

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/foodtracker/pkg/core"
)

// FormatVersion is the archive layout version written by every serializer.
const FormatVersion = 1

// ErrLossyName is returned by Serialize for a meal name the format cannot
// reproduce byte for byte on Parse.
var ErrLossyName = errors.New("meal name cannot be stored exactly in this format")

// Serializer defines how to read and write the meal archive in a specific format.
type Serializer interface {
	// Parse reads a whole archive from r.
	Parse(r io.Reader) ([]core.Meal, error)
	// Serialize converts the meals to bytes.
	Serialize(meals []core.Meal) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers, keyed by format name.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		"json": NewJSONSerializer(),
		"yaml": NewYAMLSerializer(),
		"yml":  NewYAMLSerializer(),
		"csv":  NewCSVSerializer(),
	}
}

// archive is the versioned envelope shared by the JSON and YAML formats.
type archive struct {
	Version int      `json:"version" yaml:"version"`
	Meals   []record `json:"meals" yaml:"meals"`
}

// record is the persisted form of a meal. Photos are base64 so that every
// format carries them as plain text.
type record struct {
	Name   string `json:"name" yaml:"name"`
	Photo  string `json:"photo,omitempty" yaml:"photo,omitempty"`
	Rating int    `json:"rating" yaml:"rating"`
}

func toArchive(meals []core.Meal) archive {
	a := archive{Version: FormatVersion, Meals: make([]record, 0, len(meals))}
	for _, m := range meals {
		a.Meals = append(a.Meals, toRecord(m))
	}
	return a
}

func toRecord(m core.Meal) record {
	r := record{Name: m.Name(), Rating: m.Rating()}
	if m.HasPhoto() {
		r.Photo = base64.StdEncoding.EncodeToString(m.Photo())
	}
	return r
}

func fromArchive(a archive) ([]core.Meal, error) {
	if a.Version != FormatVersion {
		return nil, fmt.Errorf("%w: archive version %d", core.ErrUnsupportedFormat, a.Version)
	}
	meals := make([]core.Meal, 0, len(a.Meals))
	for i, r := range a.Meals {
		m, err := r.meal()
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}
		meals = append(meals, m)
	}
	return meals, nil
}

// meal rebuilds the entity through NewMeal so that archived data goes through
// the same validation as user input.
func (r record) meal() (core.Meal, error) {
	var photo []byte
	if r.Photo != "" {
		decoded, err := base64.StdEncoding.DecodeString(r.Photo)
		if err != nil {
			return core.Meal{}, fmt.Errorf("invalid photo: %w", err)
		}
		photo = decoded
	}
	return core.NewMeal(r.Name, photo, r.Rating)
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON archives.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Parse(r io.Reader) ([]core.Meal, error) {
	var a archive
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&a); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return fromArchive(a)
}

// Serialize refuses names that are not valid UTF-8, which encoding/json
// would silently rewrite to U+FFFD.
func (s *JSONSerializer) Serialize(meals []core.Meal) ([]byte, error) {
	for i, m := range meals {
		if !utf8.ValidString(m.Name()) {
			return nil, fmt.Errorf("%w: meal %d: json needs UTF-8, got %q", ErrLossyName, i, m.Name())
		}
	}
	return json.MarshalIndent(toArchive(meals), "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML archives.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) ([]core.Meal, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("invalid yaml: empty document")
	}

	var a archive
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&a); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return fromArchive(a)
}

func (s *YAMLSerializer) Serialize(meals []core.Meal) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(toArchive(meals)); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- CSV Serializer ---

var csvHeader = []string{"version", "name", "photo", "rating"}

// CSVSerializer handles reading and writing CSV archives: one header row,
// then one row per meal in list order.
type CSVSerializer struct{}

// NewCSVSerializer creates a new CSV serializer.
func NewCSVSerializer() *CSVSerializer {
	return &CSVSerializer{}
}

func (s *CSVSerializer) Parse(r io.Reader) ([]core.Meal, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range csvHeader {
		if headers[i] != h {
			return nil, fmt.Errorf("unexpected csv column %q, want %q", headers[i], h)
		}
	}

	a := archive{Version: FormatVersion}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		version, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("invalid csv version %q: %w", row[0], err)
		}
		if version != FormatVersion {
			a.Version = version
		}
		rating, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("invalid csv rating %q: %w", row[3], err)
		}
		a.Meals = append(a.Meals, record{Name: row[1], Photo: row[2], Rating: rating})
	}

	return fromArchive(a)
}

// Serialize refuses names containing "\r\n", which encoding/csv reads back
// as "\n".
func (s *CSVSerializer) Serialize(meals []core.Meal) ([]byte, error) {
	for i, m := range meals {
		if strings.Contains(m.Name(), "\r\n") {
			return nil, fmt.Errorf("%w: meal %d: csv cannot keep CRLF in %q", ErrLossyName, i, m.Name())
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	version := strconv.Itoa(FormatVersion)
	for _, r := range toArchive(meals).Meals {
		if err := w.Write([]string{version, r.Name, r.Photo, strconv.Itoa(r.Rating)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
