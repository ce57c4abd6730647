package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"waste-service/internal/apperror"
	"waste-service/pkg/media"

	"github.com/labstack/echo/v4"
)

// openUploads opens every file header; the returned closer releases them all
func openUploads(headers []*multipart.FileHeader) ([]media.File, func(), error) {
	files := make([]media.File, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	closeAll := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}

	for _, header := range headers {
		body, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apperror.Validation("cannot read uploaded file %s", header.Filename)
		}
		closers = append(closers, body)
		files = append(files, media.File{
			Name:        header.Filename,
			ContentType: header.Header.Get(echo.HeaderContentType),
			Size:        header.Size,
			Body:        body,
		})
	}
	return files, closeAll, nil
}

// optionalUpload opens the named form file, returning nil when none was sent
func optionalUpload(c echo.Context, field string) (*media.File, func(), error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, apperror.Validation("invalid %s upload", field)
	}

	files, closeAll, err := openUploads([]*multipart.FileHeader{header})
	if err != nil {
		return nil, closeAll, err
	}
	return &files[0], closeAll, nil
}

// uploadsOf returns the files sent under field in a multipart request
func uploadsOf(c echo.Context, field string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Validation("invalid multipart form")
	}
	return form.File[field], nil
}
