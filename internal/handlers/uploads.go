package handlers

import (
	"net/http"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/storage"
)

// saveUpload stores an optional multipart file field. An absent field is
// fine; a store failure comes back as an AttachmentError so the caller can
// finish its primary mutation and report partial success.
func saveUpload(files *storage.Files, req *http.Request, field, subdir string) (string, *models.AttachmentError) {
	file, header, err := req.FormFile(field)
	if err != nil {
		return "", nil
	}
	defer file.Close()

	path, err := files.Save(file, header.Filename, subdir)
	if err != nil {
		return "", &models.AttachmentError{Name: header.Filename, Err: err}
	}
	return path, nil
}

// respondPartial reports a mutation that applied while its attachment
// failed to store.
func respondPartial(w http.ResponseWriter, status int, result interface{}, attErr *models.AttachmentError) {
	respondJSON(w, status, map[string]interface{}{
		"result":  result,
		"warning": attErr.Error(),
	})
}
