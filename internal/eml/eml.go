// SPDX-License-Identifier: EPL-2.0

// Package eml renders the minimal Ecological Metadata Language (EML 2.1.1)
// descriptor that accompanies the Darwin Core tables.
package eml

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileName is the conventional output name.
const FileName = "eml.xml"

const (
	namespace      = "eml://ecoinformatics.org/eml-2.1.1"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = namespace + " eml.xsd"

	// DefaultSystem is the catalog system the packageId belongs to.
	DefaultSystem = "GBIF"
	dateLayout    = "2006-01-02"
)

// Dataset describes the published dataset.
type Dataset struct {
	// PackageID identifies the document. Empty derives a stable UUID from Title.
	PackageID      string
	System         string
	Title          string
	CreatorSurname string
	Organization   string
	// PubDate is rendered as YYYY-MM-DD. Zero means today.
	PubDate  time.Time
	Abstract string
	Rights   string
}

// Document is the XML tree of an EML file.
type Document struct {
	XMLName        xml.Name `xml:"eml:eml"`
	PackageID      string   `xml:"packageId,attr"`
	System         string   `xml:"system,attr"`
	XMLNSEml       string   `xml:"xmlns:eml,attr"`
	XMLNSXsi       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`
	Dataset        dataset  `xml:"dataset"`
}

type dataset struct {
	Title        string `xml:"title"`
	Surname      string `xml:"creator>individualName>surName"`
	Organization string `xml:"creator>organizationName,omitempty"`
	PubDate      string `xml:"pubDate"`
	Abstract     string `xml:"abstract>para"`
	Rights       string `xml:"intellectualRights>para"`
}

// PackageID returns the identifier derived from title: a name-based (SHA-1)
// UUID, so regenerating the same dataset keeps its identity.
func PackageID(title string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(namespace+"/"+title)).String()
}

// New fills defaults for d and builds its document. now supplies the
// publication date when d.PubDate is zero; nil means time.Now.
func New(d Dataset, now func() time.Time) *Document {
	if d.PackageID == "" {
		d.PackageID = PackageID(d.Title)
	}
	if d.System == "" {
		d.System = DefaultSystem
	}
	if d.PubDate.IsZero() {
		if now == nil {
			now = time.Now
		}
		d.PubDate = now()
	}

	return &Document{
		PackageID:      d.PackageID,
		System:         d.System,
		XMLNSEml:       namespace,
		XMLNSXsi:       xsiNamespace,
		SchemaLocation: schemaLocation,
		Dataset: dataset{
			Title:        d.Title,
			Surname:      d.CreatorSurname,
			Organization: d.Organization,
			PubDate:      d.PubDate.Format(dateLayout),
			Abstract:     d.Abstract,
			Rights:       d.Rights,
		},
	}
}

// Write emits the XML declaration followed by the indented document.
func (doc *Document) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("%w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding EML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}
