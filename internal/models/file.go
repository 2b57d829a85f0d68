package models

import "strings"

// File описывает метаданные загруженного файла: расширение и MIME-тип.
// Запись принадлежит слою метаданных, сторадж её только читает.
type File struct {
	ID        string `json:"file_id"`
	Store     string `json:"store"`
	Name      string `json:"file_name,omitempty"`
	Extension string `json:"extension"`
	Type      string `json:"type"`
	Size      int64  `json:"size"`
}

// ValidID сообщает, годится ли идентификатор для хранения.
// Точка запрещена: при разборе URL всё после последней точки считается расширением.
func ValidID(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	return !strings.ContainsAny(id, "./\\")
}

// UploadResult возвращается после успешной загрузки.
type UploadResult struct {
	FileID string `json:"file_id"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
}
