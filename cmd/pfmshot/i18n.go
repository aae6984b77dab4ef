// Package main provides localization for the pfmshot CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Encoding": "エンコード設定",
		"Output":   "出力",
		"Debug":    "デバッグ",
		"Logging":  "ログ",

		// Root command
		"Compress a Portable FloatMap image into an FPX file": "Portable FloatMap画像をFPXファイルに圧縮",

		// Usage
		"input Portable FloatMap image filename": "入力Portable FloatMap画像ファイル名",
		"output FPX image filename":              "出力FPX画像ファイル名",
		"Output files will be overwritten.":      "出力ファイルは上書きされます。",
		"Exit status: 0 success, 1 usage, 2 read, 3 encode, 4 write, 5 configuration.": "終了ステータス: 0 成功, 1 使い方, 2 読み込み, 3 エンコード, 4 書き込み, 5 設定",

		// Encoding flags
		"YAML configuration file":                                        "YAML設定ファイル",
		"Encoder preset (fast, balanced, small)":                         "エンコーダープリセット (fast, balanced, small)",
		"Stripe codec (zstd, lz4, brotli, none), overrides preset":       "ストライプのコーデック (zstd, lz4, brotli, none)、プリセットより優先",
		"Codec compression level (0 = codec default), overrides preset":  "コーデックの圧縮レベル (0 = コーデック既定値)、プリセットより優先",
		"Compression workers (0 = number of CPUs)":                       "圧縮ワーカー数 (0 = CPU数)",
		"Rows per independently compressed stripe":                       "独立して圧縮するストライプあたりの行数",
		"Disable the byte-plane shuffle":                                 "バイトプレーンシャッフルを無効化",
		"Initial output buffer size in bytes (0 = 64)":                   "出力バッファの初期サイズ（バイト、0 = 64）",
		"Decode the output and compare it with the input before writing": "書き込み前に出力をデコードして入力と比較",

		// Output, debug and logging flags
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",
		"Enable debug output":                                "デバッグ出力を有効化",
		"Directory for debug output":                         "デバッグ出力先ディレクトリ",
		"Log level (debug, info, warn, error)":               "ログレベル (debug, info, warn, error)",
		"Suppress all log output":                            "すべてのログ出力を抑制",

		// Summary
		"Transcode Summary": "変換サマリー",
		"Input":             "入力",
		"Settings":          "設定",
		"File":              "ファイル",
		"Dimensions":        "サイズ",
		"File Size":         "ファイルサイズ",
		"Preset":            "プリセット",
		"custom":            "カスタム",
		"Codec":             "コーデック",
		"Level":             "レベル",
		"Stripe Rows":       "ストライプ行数",
		"Byte Shuffle":      "バイトシャッフル",
		"on":                "有効",
		"off":               "無効",
		"Workers":           "ワーカー数",
		"auto":              "自動",
		"Compression Ratio": "圧縮率",
		"Verified":          "検証済み",
		"yes":               "はい",
		"no":                "いいえ",
		"Output Buffer":     "出力バッファ",
		"growths":           "回拡張",
		"steps":             "ステップ",
		"Elapsed":           "所要時間",
		"Generated at":      "生成日時",
		"Item":              "項目",
		"Value":             "値",
	})
}
