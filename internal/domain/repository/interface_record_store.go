package repository

import (
	"context"

	"Gourmet-App/internal/domain/model"
)

// RecordStore コレクション単位のドキュメントストア。
// 存在しない場合はエラーにせず nil を返す
type RecordStore interface {
	GetByID(ctx context.Context, collection, id string) (model.Document, error)
	// SaveByID マージまたは作成。完全なドキュメント形状は要求しない
	SaveByID(ctx context.Context, collection, id string, data model.Document) error
	ArrayUnionField(ctx context.Context, collection, id, field string, value interface{}) error
	ArrayRemoveField(ctx context.Context, collection, id, field string, value interface{}) error
	DeleteByID(ctx context.Context, collection, id string) error
	QueryByFields(ctx context.Context, collection string, filters ...model.FieldFilter) ([]model.StoredDocument, error)
}
