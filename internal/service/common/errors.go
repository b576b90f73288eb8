package common

// エラーメッセージの絵文字定数
const (
	ErrorIcon   = "❌"
	SuccessIcon = "✅"
	WarningIcon = "⚠️"
	SearchIcon  = "🔍"
	InfoIcon    = "📋"
	ProcessIcon = "🔄"
	WaitIcon    = "⏳"
	DiskIcon    = "💾"
)

// エラーメッセージフォーマット定数
const (
	// 一覧取得エラー
	ListErrorFormat = "%s %s一覧の取得に失敗: %w"

	// リソース操作エラー
	CreateErrorFormat = "%s %s の作成に失敗: %w"
	AttachErrorFormat = "%s %s の接続に失敗: %w"
	MountErrorFormat  = "%s %s のマウントに失敗: %w"
	GetErrorFormat    = "%s %s の取得に失敗: %w"
	PutErrorFormat    = "%s %s の登録に失敗: %w"

	// 成功メッセージ
	CreateSuccessFormat = "%s %s を作成しました"
	AttachSuccessFormat = "%s %s を接続しました"
	MountSuccessFormat  = "%s %s をマウントしました"
	PutSuccessFormat    = "%s %s を登録しました"

	// 処理中メッセージ
	ProcessingFormat = "%s %s を処理中..."
	SearchingFormat  = "%s %s を検索中..."
)
