// Package ufshttp отдаёт загруженные файлы по HTTP. Middleware перехватывает только
// запросы вида /ufs/{store}/{fileID}.{ext}, остальные уходят следующему обработчику:
//   - 404 без тела, если нет стоража или записи о файле;
//   - 500 без тела, если не удалось открыть поток чтения;
//   - 200 с телом, сжатым deflate или gzip по Accept-Encoding, либо как есть.
//
// Тело передаётся потоково: сторадж → компрессор → ответ, без буферизации файла целиком.
package ufshttp
