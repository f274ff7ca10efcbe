package textindex

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/bjeber/docfind/internal/docs"
)

// exportChunkSize is the number of documents serialized per chunk file.
const exportChunkSize = 200

// bleveIndex implements Index on an in-memory bleve index. It keeps a
// denormalized copy of every record so Get and Export never touch the
// engine's stored fields.
type bleveIndex struct {
	index   bleve.Index
	records map[string]*docs.DocumentRecord
}

// New creates an empty in-memory index.
func New() (Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &bleveIndex{
		index:   idx,
		records: make(map[string]*docs.DocumentRecord),
	}, nil
}

// Import rehydrates an index from previously exported chunks.
// Returns an error on any undecodable chunk; callers fall back to a
// full rebuild.
func Import(chunks map[string][]byte) (Index, error) {
	idx, err := New()
	if err != nil {
		return nil, err
	}

	for key, data := range chunks {
		var recs []*docs.DocumentRecord
		if err := json.Unmarshal(data, &recs); err != nil {
			idx.Close()
			return nil, fmt.Errorf("failed to decode index chunk %s: %w", key, err)
		}
		for _, rec := range recs {
			if err := idx.Add(rec); err != nil {
				idx.Close()
				return nil, err
			}
		}
	}

	return idx, nil
}

// buildMapping maps the four searchable fields with the standard analyzer.
// Term vectors are enabled so hits report which fields matched.
func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	textField := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = "standard"
		fm.Store = false
		fm.Index = true
		fm.IncludeTermVectors = true
		return fm
	}

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(FieldTitle, textField())
	docMapping.AddFieldMappingsAt(FieldDescription, textField())
	docMapping.AddFieldMappingsAt(FieldTags, textField())
	docMapping.AddFieldMappingsAt(FieldBody, textField())

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func (b *bleveIndex) Add(doc *docs.DocumentRecord) error {
	if doc == nil || doc.Path == "" {
		return fmt.Errorf("cannot index document without a path")
	}

	entry := map[string]interface{}{
		FieldTitle:       doc.Title,
		FieldDescription: doc.Description,
		FieldTags:        doc.Tags,
		FieldBody:        doc.Body,
	}

	if err := b.index.Index(doc.Path, entry); err != nil {
		return fmt.Errorf("failed to index %s: %w", doc.RelPath, err)
	}

	b.records[doc.Path] = doc
	return nil
}

// Search issues one disjunction of per-field match, prefix, and
// substring wildcard queries, so a partial term anywhere inside a word
// still finds its documents while full terms rank on the analyzed match.
func (b *bleveIndex) Search(term string) ([]Match, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	fields := []string{FieldTitle, FieldDescription, FieldTags, FieldBody}
	var queries []query.Query
	for _, field := range fields {
		mq := bleve.NewMatchQuery(term)
		mq.SetField(field)
		queries = append(queries, mq)

		// Prefix and wildcard queries bypass analysis, so lowercase to
		// line up with the standard analyzer's output.
		lower := strings.ToLower(term)
		pq := bleve.NewPrefixQuery(lower)
		pq.SetField(field)
		queries = append(queries, pq)

		// The wildcard reaches mid-word partials, keeping plain-term
		// retrieval at least as wide as the exact substring filter.
		wq := bleve.NewWildcardQuery("*" + lower + "*")
		wq.SetField(field)
		queries = append(queries, wq)
	}

	size := len(b.records)
	if size == 0 {
		size = 1
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), size, 0, false)
	req.IncludeLocations = true

	res, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	matches := make([]Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		match := Match{ID: hit.ID}
		for field := range hit.Locations {
			match.Fields = append(match.Fields, field)
		}
		sort.Strings(match.Fields)
		matches = append(matches, match)
	}

	return matches, nil
}

func (b *bleveIndex) Get(id string) (*docs.DocumentRecord, bool) {
	rec, ok := b.records[id]
	return rec, ok
}

// Export serializes the records in stable path order, batched into
// uuid-keyed chunks. Rebuilding the engine from records on import is
// cheap next to re-parsing the corpus.
func (b *bleveIndex) Export(emit func(key string, data []byte) error) error {
	ids := make([]string, 0, len(b.records))
	for id := range b.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for start := 0; start < len(ids); start += exportChunkSize {
		end := start + exportChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		batch := make([]*docs.DocumentRecord, 0, end-start)
		for _, id := range ids[start:end] {
			batch = append(batch, b.records[id])
		}

		data, err := json.Marshal(batch)
		if err != nil {
			return fmt.Errorf("failed to encode index chunk: %w", err)
		}

		if err := emit(uuid.NewString(), data); err != nil {
			return err
		}
	}

	return nil
}

func (b *bleveIndex) Count() int {
	return len(b.records)
}

func (b *bleveIndex) Close() error {
	return b.index.Close()
}
