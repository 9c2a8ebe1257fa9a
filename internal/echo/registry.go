package echo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// IntentDefinition is the YAML shape of one intent under sentences/*.yaml.
type IntentDefinition struct {
	// Patterns are regexes with optional {entity} placeholders. Matching
	// anchors them with ^…$.
	Patterns []string `yaml:"patterns"`

	// Requires lists entity names the intent depends on. It is loaded with
	// the intent but not checked during matching or extraction.
	Requires []string `yaml:"requires"`
}

// ResponseSet holds one intent's templates under responses/*.yaml.
type ResponseSet struct {
	// Default is the template used when no context variant applies.
	Default string `yaml:"default"`

	// Contexts maps context names to candidate templates; one is chosen
	// uniformly at random.
	Contexts map[string][]string `yaml:"contexts"`
}

// Registry holds the compiled entities, intents, and response templates.
// Immutable after loading; safe to share across requests.
type Registry struct {
	entities    map[string]*Entity
	intents     map[string]IntentDefinition
	intentOrder []string
	responses   map[string]ResponseSet
}

// NewRegistry returns an empty Registry for programmatic registration.
func NewRegistry() *Registry {
	return &Registry{
		entities:  make(map[string]*Entity),
		intents:   make(map[string]IntentDefinition),
		responses: make(map[string]ResponseSet),
	}
}

// RegisterEntity adds or replaces an entity.
func (r *Registry) RegisterEntity(e *Entity) {
	r.entities[e.Name] = e
}

// RegisterIntent adds or replaces an intent. First registration fixes the
// intent's position in the match order.
func (r *Registry) RegisterIntent(name string, def IntentDefinition) {
	if _, exists := r.intents[name]; !exists {
		r.intentOrder = append(r.intentOrder, name)
	}
	r.intents[name] = def
}

// RegisterResponses adds or replaces an intent's response templates.
func (r *Registry) RegisterResponses(intent string, set ResponseSet) {
	r.responses[intent] = set
}

// Entity returns the named entity, or nil.
func (r *Registry) Entity(name string) *Entity {
	return r.entities[name]
}

// Intent returns the named intent definition.
func (r *Registry) Intent(name string) (IntentDefinition, bool) {
	def, ok := r.intents[name]
	return def, ok
}

// IntentNames returns intent names in registration order, which is the
// tie-break order for equal-confidence matches.
func (r *Registry) IntentNames() []string {
	return r.intentOrder
}

// ResponseSetFor returns the named intent's templates.
func (r *Registry) ResponseSetFor(intent string) (ResponseSet, bool) {
	set, ok := r.responses[intent]
	return set, ok
}

// LoadRegistry reads the three YAML data directories under dir —
// entities/, sentences/, responses/ — merging all *.yaml files in each.
// Files are visited in lexical order so intent registration order is
// deterministic.
//
// Entities whose patterns lack the required named capture group are skipped
// with a logged error; intents without a default response template are
// flagged the same way but kept (the renderer degrades to an explanatory
// string).
func LoadRegistry(dir string) (*Registry, error) {
	r := NewRegistry()

	if err := loadEntityFiles(r, filepath.Join(dir, "entities")); err != nil {
		return nil, err
	}
	if err := loadSentenceFiles(r, filepath.Join(dir, "sentences")); err != nil {
		return nil, err
	}
	if err := loadResponseFiles(r, filepath.Join(dir, "responses")); err != nil {
		return nil, err
	}

	for _, name := range r.intentOrder {
		if set, ok := r.responses[name]; !ok || set.Default == "" {
			slog.Error("intent has no default response template", "intent", name)
		}
	}

	slog.Info("echo registry loaded",
		"entities", len(r.entities),
		"intents", len(r.intents),
		"responses", len(r.responses),
	)
	return r, nil
}

// yamlFiles lists *.yaml files in dir sorted by name. A missing directory is
// an error: the engine cannot run without its data tree.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("echo: read data directory %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("echo: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("echo: decode %q: %w", path, err)
	}
	return nil
}

func loadEntityFiles(r *Registry, dir string) error {
	files, err := yamlFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range files {
		var doc struct {
			Entities map[string]EntityDefinition `yaml:"entities"`
		}
		if err := decodeFile(path, &doc); err != nil {
			return err
		}
		for name, def := range doc.Entities {
			e, err := NewEntity(name, def)
			if err != nil {
				slog.Error("rejected entity definition", "entity", name, "file", path, "err", err)
				continue
			}
			r.RegisterEntity(e)
		}
	}
	return nil
}

// loadSentenceFiles decodes intents with yaml.Node so document order is
// preserved — map decoding would randomise the tie-break order.
func loadSentenceFiles(r *Registry, dir string) error {
	files, err := yamlFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range files {
		var doc struct {
			Intents yaml.Node `yaml:"intents"`
		}
		if err := decodeFile(path, &doc); err != nil {
			return err
		}
		if doc.Intents.Kind == 0 {
			continue
		}
		if doc.Intents.Kind != yaml.MappingNode {
			return fmt.Errorf("echo: %q: intents must be a mapping", path)
		}
		for i := 0; i+1 < len(doc.Intents.Content); i += 2 {
			name := doc.Intents.Content[i].Value
			var def IntentDefinition
			if err := doc.Intents.Content[i+1].Decode(&def); err != nil {
				return fmt.Errorf("echo: %q: intent %q: %w", path, name, err)
			}
			r.RegisterIntent(name, def)
		}
	}
	return nil
}

func loadResponseFiles(r *Registry, dir string) error {
	files, err := yamlFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range files {
		var doc struct {
			Responses struct {
				Intents map[string]ResponseSet `yaml:"intents"`
			} `yaml:"responses"`
		}
		if err := decodeFile(path, &doc); err != nil {
			return err
		}
		for name, set := range doc.Responses.Intents {
			r.RegisterResponses(name, set)
		}
	}
	return nil
}
