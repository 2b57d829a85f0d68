// Package ufsproto описывает HTTP-протокол выдачи и загрузки файлов.
package ufsproto

// Пути и заголовки публичного HTTP-интерфейса.
const (
	PathPrefix       = "/ufs"
	FileURLFormat    = "%s/ufs/%s/%s.%s"
	UploadPathFormat = "%s/api/stores/%s/files"
	FilePathFormat   = "%s/api/stores/%s/files/%s"
	HeaderFileName   = "X-File-Name"
)
