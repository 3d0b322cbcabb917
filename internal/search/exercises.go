// Package search backs the exercise-picker search box with an in-memory
// full-text index over the exercise catalog. The catalog is small and
// refetched with the screen, so the index lives in memory and is rebuilt
// wholesale on every catalog load.
package search

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

// ExerciseIndex is a searchable view over the exercise catalog.
type ExerciseIndex struct {
	mu        sync.RWMutex
	index     bleve.Index
	exercises map[int64]domain.Exercise
	log       *logger.Logger
}

type exerciseDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscle_group"`
}

// NewExerciseIndex creates an empty in-memory index.
func NewExerciseIndex(log *logger.Logger) (*ExerciseIndex, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise index: %w", err)
	}
	return &ExerciseIndex{
		index:     idx,
		exercises: make(map[int64]domain.Exercise),
		log:       log.WithComponent("exercise-index"),
	}, nil
}

func buildMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Store = false
	doc.AddFieldMappingsAt("name", nameField)

	descField := bleve.NewTextFieldMapping()
	descField.Store = false
	doc.AddFieldMappingsAt("description", descField)

	groupField := bleve.NewKeywordFieldMapping()
	groupField.Store = false
	doc.AddFieldMappingsAt("muscle_group", groupField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Load replaces the indexed catalog with a fresh listing.
func (e *ExerciseIndex) Load(exercises []domain.Exercise) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	batch := e.index.NewBatch()
	for id := range e.exercises {
		batch.Delete(strconv.FormatInt(id, 10))
	}

	catalog := make(map[int64]domain.Exercise, len(exercises))
	for _, ex := range exercises {
		if ex.ID == 0 {
			continue
		}
		catalog[ex.ID] = ex
		batch.Index(strconv.FormatInt(ex.ID, 10), exerciseDoc{
			Name:        ex.Name,
			Description: ex.Description,
			MuscleGroup: ex.MuscleGroup,
		})
	}

	if err := e.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index exercise catalog: %w", err)
	}
	e.exercises = catalog
	e.log.Debug("exercise catalog indexed", "count", len(catalog))
	return nil
}

// Search returns catalog entries matching the query, best first. An
// empty query returns the whole catalog unordered.
func (e *ExerciseIndex) Search(q string, limit int) ([]domain.Exercise, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if limit < 1 {
		limit = 50
	}

	if q == "" {
		out := make([]domain.Exercise, 0, len(e.exercises))
		for _, ex := range e.exercises {
			out = append(out, ex)
			if len(out) == limit {
				break
			}
		}
		return out, nil
	}

	// Prefix query covers the as-you-type case, match query the rest.
	prefix := bleve.NewPrefixQuery(q)
	match := bleve.NewMatchQuery(q)
	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(prefix, match))
	req.Size = limit

	res, err := e.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("exercise search failed: %w", err)
	}

	out := make([]domain.Exercise, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		if ex, ok := e.exercises[id]; ok {
			out = append(out, ex)
		}
	}
	return out, nil
}

// Close releases the index.
func (e *ExerciseIndex) Close() error {
	return e.index.Close()
}
