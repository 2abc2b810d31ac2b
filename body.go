package gqlclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

const jsonContentType = "application/json"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// body is an encoded request body. r is a *bytes.Reader for JSON bodies and
// the read end of a pipe for multipart bodies.
type body struct {
	contentType string
	r           io.Reader
	close       func()
}

// operations is the JSON document shared by both body encodings.
func operations(query string, vars map[string]interface{}) ([]byte, error) {
	// A nil map would encode as null, servers expect an object
	if len(vars) == 0 {
		vars = map[string]interface{}{}
	}
	reqData := struct {
		Query string                 `json:"query"`
		Vars  map[string]interface{} `json:"variables"`
	}{
		Query: query,
		Vars:  vars,
	}
	b, err := json.Marshal(&reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request payload: %v", err)
	}
	return b, nil
}

// fileMap encodes the "map" part. encoding/json sorts map keys, so the
// object is written by hand to keep the order files were supplied in.
func fileMap(files []File) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range files {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		path, err := json.Marshal([]string{"variables." + f.Key})
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(path)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func buildBody(query string, vars map[string]interface{}, files []File) (*body, error) {
	ops, err := operations(query, vars)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &body{
			contentType: jsonContentType,
			r:           bytes.NewReader(ops),
			close:       func() {},
		}, nil
	}

	fm, err := fileMap(files)
	if err != nil {
		return nil, fmt.Errorf("failed to encode file map: %v", err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(mw, ops, fm, files))
	}()
	return &body{
		contentType: mw.FormDataContentType(),
		r:           pr,
		close:       func() { pr.Close() },
	}, nil
}

func writeMultipart(mw *multipart.Writer, ops, fm []byte, files []File) error {
	if err := mw.WriteField("operations", string(ops)); err != nil {
		return err
	}
	if err := mw.WriteField("map", string(fm)); err != nil {
		return err
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Key), quoteEscaper.Replace(f.Filename)))
		h.Set("Content-Type", partContentType(f))
		w, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if f.Body != nil {
			if _, err := io.Copy(w, f.Body); err != nil {
				return fmt.Errorf("failed to copy file %q: %w", f.Key, err)
			}
		}
	}
	return mw.Close()
}

func partContentType(f File) string {
	if f.MIMEType != "" {
		return f.MIMEType
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Filename))); t != "" {
		return t
	}
	return "application/octet-stream"
}
