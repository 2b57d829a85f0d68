package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/sir_venger/ufs_lite/internal/models"
	"github.com/sir_venger/ufs_lite/pkg/ufsproto"
)

// MetaLookup отдаёт запись о файле по идентификатору или models.ErrNotFound.
type MetaLookup interface {
	Get(ctx context.Context, id string) (models.File, error)
}

// FilePath: единственное место, где вычисляется путь к байтам файла: root/id.ext.
func FilePath(root, fileID, extension string) string {
	return root + "/" + fileID + "." + extension
}

// FileURL строит абсолютный URL, по которому файл отдаёт HTTP-сервер.
func FileURL(baseURL, storeName, fileID, extension string) string {
	return fmt.Sprintf(ufsproto.FileURLFormat, strings.TrimRight(baseURL, "/"), storeName, fileID, extension)
}

// lookupRecord достаёт запись и проверяет, что она принадлежит сторажу storeName.
// Запись другого стоража неотличима от отсутствующей. Пустой Store допускается
// для записей, созданных в обход сервиса загрузки.
func lookupRecord(ctx context.Context, meta MetaLookup, storeName, fileID string) (models.File, error) {
	file, err := meta.Get(ctx, fileID)
	if err != nil {
		return models.File{}, err
	}
	if file.Store != "" && file.Store != storeName {
		return models.File{}, fmt.Errorf("%w: %s/%s", models.ErrNotFound, storeName, fileID)
	}

	return file, nil
}
