package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/repository"
)

// MemoryRecordStore プロセス内のRecordStore（開発環境・テスト用）。
// 保存時にJSONで正規化するため、読み出し側はFirestoreと同じく map / []interface{} / float64 を受け取る
type MemoryRecordStore struct {
	mu   sync.RWMutex
	data map[string]map[string]model.Document
}

func NewMemoryRecordStore() repository.RecordStore {
	return &MemoryRecordStore{data: make(map[string]map[string]model.Document)}
}

func (m *MemoryRecordStore) GetByID(ctx context.Context, collection, id string) (model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.data[collection][id]
	if !ok {
		return nil, nil
	}
	return cloneDocument(doc)
}

func (m *MemoryRecordStore) SaveByID(ctx context.Context, collection, id string, data model.Document) error {
	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := m.ensure(collection, id)
	mergeInto(doc, normalized)
	return nil
}

func (m *MemoryRecordStore) ArrayUnionField(ctx context.Context, collection, id, field string, value interface{}) error {
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := m.ensure(collection, id)
	list, _ := doc[field].([]interface{})
	for _, existing := range list {
		if reflect.DeepEqual(existing, v) {
			return nil
		}
	}
	doc[field] = append(list, v)
	return nil
}

func (m *MemoryRecordStore) ArrayRemoveField(ctx context.Context, collection, id, field string, value interface{}) error {
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := m.ensure(collection, id)
	list, _ := doc[field].([]interface{})
	kept := make([]interface{}, 0, len(list))
	for _, existing := range list {
		if !reflect.DeepEqual(existing, v) {
			kept = append(kept, existing)
		}
	}
	doc[field] = kept
	return nil
}

func (m *MemoryRecordStore) DeleteByID(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[collection], id)
	return nil
}

// QueryByFields ID順で返す
func (m *MemoryRecordStore) QueryByFields(ctx context.Context, collection string, filters ...model.FieldFilter) ([]model.StoredDocument, error) {
	wanted := make([]interface{}, len(filters))
	for i, f := range filters {
		v, err := normalizeValue(f.Value)
		if err != nil {
			return nil, err
		}
		wanted[i] = v
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []model.StoredDocument
	for id, doc := range m.data[collection] {
		match := true
		for i, f := range filters {
			if !reflect.DeepEqual(doc[f.Field], wanted[i]) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		clone, err := cloneDocument(doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, model.StoredDocument{ID: id, Data: clone})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *MemoryRecordStore) ensure(collection, id string) model.Document {
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]model.Document)
	}
	doc, ok := m.data[collection][id]
	if !ok {
		doc = model.Document{}
		m.data[collection][id] = doc
	}
	return doc
}

// mergeInto ネストしたマップは再帰的にマージし、それ以外は上書きする
func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]interface{})
		dstMap, dstIsMap := dst[k].(map[string]interface{})
		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}

func normalize(data model.Document) (model.Document, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントの変換に失敗: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("ドキュメントの変換に失敗: %w", err)
	}
	return doc, nil
}

func normalizeValue(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("値の変換に失敗: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("値の変換に失敗: %w", err)
	}
	return v, nil
}

func cloneDocument(doc model.Document) (model.Document, error) {
	return normalize(doc)
}
