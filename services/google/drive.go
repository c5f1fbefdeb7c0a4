package google

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveFile is the minimal descriptor returned after an upload
type DriveFile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	WebViewLink    string `json:"web_view_link,omitempty"`
	WebContentLink string `json:"web_content_link,omitempty"`
}

// DriveClient wraps the Google Drive API for one authenticated user
type DriveClient struct {
	svc *drive.Service
}

// NewDrive builds a Drive client from a user token
func (a *AuthService) NewDrive(ctx context.Context, tok *oauth2.Token) (*DriveClient, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(a.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return &DriveClient{svc: svc}, nil
}

// Download fetches a file's content by id. Google-native documents are
// exported (documents to plain text, spreadsheets to CSV); other native
// types without an export mapping fail explicitly. Everything else is a raw
// media download.
func (d *DriveClient) Download(fileID string) ([]byte, error) {
	meta, err := d.svc.Files.Get(fileID).Fields("mimeType, name").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata for file %s: %w", fileID, err)
	}

	var body io.ReadCloser

	if strings.Contains(meta.MimeType, "google-apps") {
		var exportMime string
		switch {
		case strings.Contains(meta.MimeType, "document"):
			exportMime = "text/plain"
		case strings.Contains(meta.MimeType, "spreadsheet"):
			exportMime = "text/csv"
		default:
			return nil, fmt.Errorf("unsupported google apps mime type for export: %s", meta.MimeType)
		}

		res, err := d.svc.Files.Export(fileID, exportMime).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to export file %s: %w", fileID, err)
		}
		body = res.Body
	} else {
		res, err := d.svc.Files.Get(fileID).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
		}
		body = res.Body
	}

	defer body.Close()
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read content of file %s: %w", fileID, err)
	}
	return content, nil
}

// Upload stores a local file on Drive, parented under folderID when given,
// and returns the minimal descriptor the submission flow needs
func (d *DriveClient) Upload(localPath, name, mimeType, folderID string) (*DriveFile, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s for upload: %w", localPath, err)
	}
	defer f.Close()

	meta := &drive.File{Name: name}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	created, err := d.svc.Files.Create(meta).
		Media(f, googleapi.ContentType(mimeType)).
		Fields("id, name, webViewLink, webContentLink").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %s: %w", name, err)
	}

	return &DriveFile{
		ID:             created.Id,
		Name:           created.Name,
		WebViewLink:    created.WebViewLink,
		WebContentLink: created.WebContentLink,
	}, nil
}

// folderQuery builds the Drive search query for a folder name. Backslashes
// must be escaped before quotes or the escapes themselves get escaped.
func folderQuery(name string) string {
	escaped := strings.ReplaceAll(name, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return fmt.Sprintf("mimeType='%s' and name='%s' and trashed=false",
		folderMimeType, escaped)
}

// FindOrCreateFolder returns the id of a non-trashed folder with the exact
// name, creating it when missing. Not safe under concurrent callers; a race
// between search and create can leave duplicate folders behind.
func (d *DriveClient) FindOrCreateFolder(name string) (string, error) {
	resp, err := d.svc.Files.List().Q(folderQuery(name)).Fields("files(id, name)").Do()
	if err != nil {
		return "", fmt.Errorf("failed to search for folder %q: %w", name, err)
	}

	if len(resp.Files) > 0 {
		return resp.Files[0].Id, nil
	}

	folder, err := d.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}

	return folder.Id, nil
}
