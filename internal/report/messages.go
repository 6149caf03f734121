package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Keys of the catalog, which are also the English messages.
const (
	msgFound          = "Found %d archive(s) to process"
	msgNoArchives     = "No zip files found matching patterns: %s"
	msgProcessing     = "[%d/%d] Processing %s..."
	msgDescribe       = "Processing %s"
	msgBar            = "Extracting archives..."
	msgSummary        = "%s: %d extracted, %d skipped, %d renamed | %s → %s (%.1f%% compression)"
	msgCollision      = "Collision in %s: %s → %s"
	msgError          = "Error in %s: %s"
	msgMoveError      = "Cannot move %s: %v"
	msgComplete       = "Processing complete!"
	msgTotals         = "Total: %d extracted, %d skipped, %d renamed, %d errors"
	msgInterrupted    = "Operation interrupted by user (Ctrl-C)"
	msgFatal          = "Fatal error: %v"
	msgCorrupt        = "Corrupted archive: %v"
	msgNoSpace        = "Insufficient disk space: need %s, available %s"
	msgFreeSpaceError = "Cannot check free space: %v"
	msgUnsafePath     = "Unsafe path detected: %s"
	msgEntryIO        = "Error extracting %s: %v"
)

var russian = map[string]string{
	msgFound:          "Найдено архивов для обработки: %d",
	msgNoArchives:     "Не найдено zip-файлов по шаблонам: %s",
	msgProcessing:     "[%d/%d] Обработка %s...",
	msgDescribe:       "Обработка %s",
	msgBar:            "Распаковка архивов...",
	msgSummary:        "%s: %d извлечено, %d пропущено, %d переименовано | %s → %s (сжатие %.1f%%)",
	msgCollision:      "Коллизия в %s: %s → %s",
	msgError:          "Ошибка в %s: %s",
	msgMoveError:      "Не удалось переместить %s: %v",
	msgComplete:       "Обработка завершена!",
	msgTotals:         "Итого: %d извлечено, %d пропущено, %d переименовано, %d ошибок",
	msgInterrupted:    "Операция прервана пользователем (Ctrl-C)",
	msgFatal:          "Критическая ошибка: %v",
	msgCorrupt:        "Повреждённый архив: %v",
	msgNoSpace:        "Недостаточно места на диске: нужно %s, доступно %s",
	msgFreeSpaceError: "Не удалось проверить свободное место: %v",
	msgUnsafePath:     "Обнаружен небезопасный путь: %s",
	msgEntryIO:        "Ошибка извлечения %s: %v",
}

// newCatalog returns the catalog of translated messages. English needs no entry since keys are English.
func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Supported[0]))
	for key, msg := range russian {
		if err := b.SetString(language.Russian, key, msg); err != nil {
			panic(err)
		}
	}

	return b
}
