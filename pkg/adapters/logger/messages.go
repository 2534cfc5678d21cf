package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Session lifecycle (info)
		"Monitoring session %s started":            "監視セッション %s を開始しました",
		"Monitoring session %s stopped":            "監視セッション %s を停止しました",
		"Monitoring %s on host %s...":              "%s をホスト %s で監視中...",
		"State feed listening on %s":               "状態フィードを %s で待ち受け中",
		"Interrupted, shutting down...":            "中断されました。シャットダウン中...",
		"Device control lost, stopping monitoring": "デバイス制御が失われました。監視を停止します",

		// Ingestion
		"Failed to fetch new frames: %s":   "新しいフレームの取得に失敗しました: %s",
		"Analysis failed for frame %d: %s": "フレーム %d の解析に失敗しました: %s",

		// Subtitle overlay
		"Subtitle overlay failed for frame %d: %s": "フレーム %d の字幕オーバーレイに失敗しました: %s",

		// Errors
		"Failed to connect to control service: %s": "制御サービスへの接続に失敗しました: %s",
		"Failed to start monitoring: %s":           "監視の開始に失敗しました: %s",
	})
}
