package ufshttp

import (
	"regexp"
)

var (
	filePathRe  = regexp.MustCompile(`^/ufs/([^/]+)/([^/]+)$`)
	extensionRe = regexp.MustCompile(`\.[^.]+$`)
)

// fileRequest содержит разобранные из URL имя стоража и идентификатор файла.
type fileRequest struct {
	storeName string
	fileName  string
	fileID    string
}

// parseFileRequest сопоставляет путь с /ufs/{store}/{file.ext}.
// Всё после последней точки считается расширением, поэтому точки в id не допускаются.
func parseFileRequest(path string) (*fileRequest, bool) {
	m := filePathRe.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	return &fileRequest{
		storeName: m[1],
		fileName:  m[2],
		fileID:    extensionRe.ReplaceAllString(m[2], ""),
	}, true
}
