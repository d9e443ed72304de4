package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// DocumentFile is the file name of the cached instance identity document.
const DocumentFile = "ec2-instance-identity-document.json"

// RegionDiscoverer resolves the AWS region the process runs in.
type RegionDiscoverer interface {
	DiscoverRegion(ctx context.Context) (string, error)
}

// DocumentFetcher retrieves the instance identity document.
// *imds.Client satisfies it.
type DocumentFetcher interface {
	GetInstanceIdentityDocument(ctx context.Context, params *imds.GetInstanceIdentityDocumentInput, optFns ...func(*imds.Options)) (*imds.GetInstanceIdentityDocumentOutput, error)
}

// DocumentCache discovers the region from the EC2 instance identity document,
// keeping a JSON copy on local disk.
type DocumentCache struct {
	fetcher DocumentFetcher
	path    string
}

// NewDocumentCache creates a discoverer that caches the document at path.
// An empty path means $TMPDIR/ec2-instance-identity-document.json.
// A nil fetcher uses the default IMDS client.
func NewDocumentCache(path string, fetcher DocumentFetcher) *DocumentCache {
	if path == "" {
		path = filepath.Join(os.TempDir(), DocumentFile)
	}
	if fetcher == nil {
		fetcher = imds.New(imds.Options{})
	}
	return &DocumentCache{fetcher: fetcher, path: path}
}

// Path returns the location of the cached document.
func (d *DocumentCache) Path() string {
	return d.path
}

// DiscoverRegion reads the cached document, fetching and caching it first
// when no cached copy exists.
func (d *DocumentCache) DiscoverRegion(ctx context.Context) (string, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = d.fetch(ctx)
	}
	if err != nil {
		return "", errors.Join(ErrDiscoveryFailed, err)
	}

	var doc imds.InstanceIdentityDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", errors.Join(ErrInvalidDocument, err)
	}
	if doc.Region == "" {
		return "", ErrNoRegion
	}

	return doc.Region, nil
}

// fetch calls the metadata service and stores the document.
// A write failure does not fail discovery; the next process fetches again.
func (d *DocumentCache) fetch(ctx context.Context) ([]byte, error) {
	out, err := d.fetcher.GetInstanceIdentityDocument(ctx, &imds.GetInstanceIdentityDocumentInput{})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(out.InstanceIdentityDocument)
	if err != nil {
		return nil, err
	}

	_ = writeFile(d.path, data)

	return data, nil
}

// writeFile replaces path through a temp file in the same directory, so a
// concurrent reader sees either no document or a complete one.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ RegionDiscoverer = (*DocumentCache)(nil)
