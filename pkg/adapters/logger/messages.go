package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":               "パイプラインを開始します",
		"Reading %s":                      "%s を読み込み中",
		"Loaded %dx%d raster (%d bytes)":  "%dx%d のラスタを読み込みました (%d バイト)",
		"Encoding with %s level %d":       "%s レベル %d でエンコード中",
		"Encoded %d bytes":                "%d バイトにエンコードしました",
		"Output verified":                 "出力を検証しました",
		"Output saved to %s":              "出力を %s に保存しました",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Summary saved to %s":             "サマリーを %s に保存しました",
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",

		// Errors
		"Couldn't load %s":    "%s を読み込めませんでした",
		"Couldn't encode %s":  "%s をエンコードできませんでした",
		"Couldn't write %s":   "%s に書き込めませんでした",
		"Verification failed": "検証に失敗しました",

		// Warnings
		"Failed to save debug output: %s": "デバッグ出力の保存に失敗しました: %s",
		"Failed to write summary: %s":     "サマリーの書き込みに失敗しました: %s",
		"Failed to release scheduler: %s": "スケジューラの解放に失敗しました: %s",
		"Failed to release encoder: %s":   "エンコーダーの解放に失敗しました: %s",

		// Read stage
		"Read %d bytes from %s":                       "%[2]s から %[1]d バイトを読み込みました",
		"Parsed %dx%d raster, %s samples at offset %d": "%dx%d のラスタを解析しました (%s サンプル, オフセット %d)",

		// Encode stage
		"Output buffer grown from %d to %d bytes": "出力バッファを %d から %d バイトに拡張しました",
		"Drained %d bytes in %d steps":            "%d バイトを %d ステップで取り出しました",
		"Verified %d samples":                     "%d サンプルを検証しました",
	})
}
