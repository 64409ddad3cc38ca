package firestore

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FirestoreClient RecordStoreのバックエンドとなるFirestoreクライアント
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient Cloud Run上ではデフォルト認証、ローカルでは認証ファイルがあればそれを使う
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	var opts []option.ClientOption

	// Cloud Run環境の検出
	isCloudRun := os.Getenv("K_SERVICE") != ""

	switch {
	case isCloudRun:
		log.Info().Msg("☁️ Cloud Run環境: デフォルト認証を使用")
	case credentialsFile == "":
		credentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		fallthrough
	default:
		if credentialsFile == "" {
			log.Info().Msg("🔑 認証ファイル未指定: デフォルト認証を使用")
		} else if _, err := os.Stat(credentialsFile); err != nil {
			log.Warn().Str("file", credentialsFile).Msg("⚠️ 認証ファイルが見つかりません、デフォルト認証を使用します")
		} else {
			log.Info().Str("file", credentialsFile).Msg("📄 認証ファイルを使用")
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "Firestoreクライアントの作成に失敗")
	}
	log.Info().Str("project", projectID).Msg("✅ Firestoreクライアントを初期化しました")

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
