package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// multipartMemory is how much of a multipart body is buffered before
// spilling file parts to disk.
const multipartMemory = 1 << 20

type CustomerForm struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,email"`

	// Image is nil when the browser sent no file or an empty one.
	Image *multipart.FileHeader `form:"image" validate:"-"`
	// ContentType is the sniffed type of Image, set by Validate.
	ContentType string `form:"-" validate:"-"`
}

var customerMessages = map[string]string{
	"name":  "Please enter a name.",
	"email": "Please enter a valid email address.",
}

// ParseCustomerForm accepts multipart or urlencoded bodies.
func ParseCustomerForm(r *http.Request) (*CustomerForm, error) {
	err := r.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	form := &CustomerForm{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 && files[0].Size > 0 {
			form.Image = files[0]
		}
	}
	return form, nil
}

// Validate checks the text fields and, when an image is attached, its size
// and sniffed content type.
func (f *CustomerForm) Validate(maxImageBytes int64) error {
	verr := check(f, customerMessages)

	if f.Image != nil {
		if msg := f.checkImage(maxImageBytes); msg != "" {
			verr.add("image", msg)
		}
	}
	return verr.orNil()
}

func (f *CustomerForm) checkImage(maxImageBytes int64) string {
	if maxImageBytes > 0 && f.Image.Size > maxImageBytes {
		return ImageTooLargeMessage(maxImageBytes)
	}

	file, err := f.Image.Open()
	if err != nil {
		return "Could not read the uploaded file."
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "Could not read the uploaded file."
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "Please upload an image file."
	}

	f.ContentType = mtype.String()
	return ""
}

func ImageTooLargeMessage(maxImageBytes int64) string {
	return fmt.Sprintf("Image must be %s or smaller.", humanBytes(maxImageBytes))
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
