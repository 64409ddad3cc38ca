package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/repository"
)

// FirestoreRecordStore Firestoreを使用したRecordStore
type FirestoreRecordStore struct {
	client *firestore.Client
}

// NewFirestoreRecordStore 新しいFirestoreRecordStoreインスタンスを作成
func NewFirestoreRecordStore(client *firestore.Client) repository.RecordStore {
	return &FirestoreRecordStore{
		client: client,
	}
}

// GetByID ドキュメントを取得する。存在しなければ nil
func (r *FirestoreRecordStore) GetByID(ctx context.Context, collection, id string) (model.Document, error) {
	snap, err := r.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("ドキュメントの取得に失敗しました (%s/%s): %w", collection, id, err)
	}
	return model.Document(snap.Data()), nil
}

// SaveByID マージ保存（存在しなければ作成）
func (r *FirestoreRecordStore) SaveByID(ctx context.Context, collection, id string, data model.Document) error {
	if _, err := r.client.Collection(collection).Doc(id).Set(ctx, map[string]interface{}(data), firestore.MergeAll); err != nil {
		log.Error().Err(err).Str("collection", collection).Str("doc_id", id).Msg("❌ ドキュメントの保存に失敗")
		return fmt.Errorf("ドキュメントの保存に失敗しました: %w", err)
	}
	return nil
}

// ArrayUnionField 配列フィールドに値をアトミックに追加する
func (r *FirestoreRecordStore) ArrayUnionField(ctx context.Context, collection, id, field string, value interface{}) error {
	update := map[string]interface{}{field: firestore.ArrayUnion(value)}
	if _, err := r.client.Collection(collection).Doc(id).Set(ctx, update, firestore.MergeAll); err != nil {
		return fmt.Errorf("配列への追加に失敗しました (%s/%s.%s): %w", collection, id, field, err)
	}
	return nil
}

// ArrayRemoveField 配列フィールドから値をアトミックに削除する
func (r *FirestoreRecordStore) ArrayRemoveField(ctx context.Context, collection, id, field string, value interface{}) error {
	update := map[string]interface{}{field: firestore.ArrayRemove(value)}
	if _, err := r.client.Collection(collection).Doc(id).Set(ctx, update, firestore.MergeAll); err != nil {
		return fmt.Errorf("配列からの削除に失敗しました (%s/%s.%s): %w", collection, id, field, err)
	}
	return nil
}

func (r *FirestoreRecordStore) DeleteByID(ctx context.Context, collection, id string) error {
	if _, err := r.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("ドキュメントの削除に失敗しました (%s/%s): %w", collection, id, err)
	}
	return nil
}

// QueryByFields すべての条件に等しいドキュメントを返す
func (r *FirestoreRecordStore) QueryByFields(ctx context.Context, collection string, filters ...model.FieldFilter) ([]model.StoredDocument, error) {
	query := r.client.Collection(collection).Query
	for _, f := range filters {
		query = query.Where(f.Field, "==", f.Value)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []model.StoredDocument
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ドキュメントの検索に失敗しました (%s): %w", collection, err)
		}
		docs = append(docs, model.StoredDocument{ID: snap.Ref.ID, Data: model.Document(snap.Data())})
	}
	return docs, nil
}
