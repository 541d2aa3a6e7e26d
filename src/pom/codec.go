package pom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/javaorbit/orbit/src/rerr"
)

// wireProject mirrors the subset of the Apache POM 4.0.0 schema this
// resolver understands; unknown elements are ignored by encoding/xml
// automatically. Scope/type/optional are kept as strings on the wire so an
// empty element round-trips as "absent" rather than a zero-value surprise.
type wireProject struct {
	XMLName              xml.Name                  `xml:"project"`
	Xmlns                string                    `xml:"xmlns,attr,omitempty"`
	XmlnsXsi             string                    `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation       string                    `xml:"xsi:schemaLocation,attr,omitempty"`
	ModelVersion         string                    `xml:"modelVersion"`
	GroupID              string                    `xml:"groupId,omitempty"`
	ArtifactID           string                    `xml:"artifactId"`
	Version              string                    `xml:"version,omitempty"`
	Parent               *wireParent               `xml:"parent"`
	Properties           *wireProperties           `xml:"properties"`
	Dependencies         *wireDependencyList       `xml:"dependencies"`
	DependencyManagement *wireDependencyManagement `xml:"dependencyManagement"`
}

type wireParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type wireDependencyList struct {
	Dependency []wireDependency `xml:"dependency"`
}

type wireDependencyManagement struct {
	Dependencies wireDependencyList `xml:"dependencies"`
}

type wireDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version,omitempty"`
	Scope      string `xml:"scope,omitempty"`
	Type       string `xml:"type,omitempty"`
	Optional   string `xml:"optional,omitempty"`
}

// wireProperties captures `<properties>`'s free-form key/value children,
// grounded on the same UnmarshalXML/MarshalXML pattern used for arbitrary
// element maps: each child element's local name is the key.
type wireProperties struct {
	Entries map[string]string
}

func (p *wireProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Entries = make(map[string]string)
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Entries[t.Name.Local] = value
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

func (p wireProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for k, v := range p.Entries {
		if err := e.EncodeElement(v, xml.StartElement{Name: xml.Name{Local: k}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// Parse maps POM XML text onto the in-memory model. Empty, missing or
// whitespace-only elements become absent optionals. If groupId or version
// is absent in the document they're filled from Parent; if both are absent
// and there's no parent, parsing fails with MalformedPom.
func Parse(text []byte) (*Pom, error) {
	var w wireProject
	if err := xml.Unmarshal(text, &w); err != nil {
		return nil, rerr.New(rerr.ParseError, "", fmt.Errorf("parsing POM XML: %w", err))
	}

	p := &Pom{
		ModelVersion: blankToAbsent(w.ModelVersion),
		GroupID:      strings.TrimSpace(w.GroupID),
		ArtifactID:   strings.TrimSpace(w.ArtifactID),
		Version:      strings.TrimSpace(w.Version),
	}
	if w.Parent != nil {
		p.Parent = &Parent{
			GroupID:    strings.TrimSpace(w.Parent.GroupID),
			ArtifactID: strings.TrimSpace(w.Parent.ArtifactID),
			Version:    strings.TrimSpace(w.Parent.Version),
		}
	}
	if w.Properties != nil {
		props := make(map[string]string, len(w.Properties.Entries))
		for k, v := range w.Properties.Entries {
			props[k] = v
		}
		p.Properties = props
	}
	if w.Dependencies != nil {
		p.Dependencies = toDependencies(w.Dependencies.Dependency)
	}
	if w.DependencyManagement != nil {
		p.DependencyManagement = &DependencyManagement{
			Dependencies: toDependencies(w.DependencyManagement.Dependencies.Dependency),
		}
	}

	if p.GroupID == "" && p.Parent != nil {
		p.GroupID = p.Parent.GroupID
	}
	if p.Version == "" && p.Parent != nil {
		p.Version = p.Parent.Version
	}
	if p.GroupID == "" || p.Version == "" {
		return nil, rerr.New(rerr.MalformedPom, p.ArtifactID,
			fmt.Errorf("groupId/version absent and no parent to inherit from"))
	}
	return p, nil
}

func toDependencies(wds []wireDependency) []Dependency {
	deps := make([]Dependency, len(wds))
	for i, wd := range wds {
		d := Dependency{
			GroupID:    strings.TrimSpace(wd.GroupID),
			ArtifactID: strings.TrimSpace(wd.ArtifactID),
		}
		if v := strings.TrimSpace(wd.Version); v != "" {
			d.Version = &v
		}
		if s := strings.TrimSpace(wd.Scope); s != "" {
			scope := Scope(s)
			d.Scope = &scope
		}
		if ty := strings.TrimSpace(wd.Type); ty != "" {
			d.Type = &ty
		}
		if o := strings.TrimSpace(wd.Optional); o != "" {
			opt := o == "true"
			d.Optional = &opt
		}
		deps[i] = d
	}
	return deps
}

func blankToAbsent(s string) string {
	if strings.TrimSpace(s) == "" {
		return "4.0.0"
	}
	return s
}

// Serialize emits a minimal, schema-annotated POM document for p. Callers
// are expected to pass an already-cleaned Pom (no parent, no properties, no
// dependencyManagement), matching what the disk cache persists, but
// Serialize itself places no such restriction on its input.
func Serialize(p *Pom) ([]byte, error) {
	w := wireProject{
		Xmlns:          "http://maven.apache.org/POM/4.0.0",
		XmlnsXsi:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd",
		ModelVersion:   p.ModelVersion,
		GroupID:        p.GroupID,
		ArtifactID:     p.ArtifactID,
		Version:        p.Version,
	}
	if w.ModelVersion == "" {
		w.ModelVersion = "4.0.0"
	}
	if p.Parent != nil {
		w.Parent = &wireParent{GroupID: p.Parent.GroupID, ArtifactID: p.Parent.ArtifactID, Version: p.Parent.Version}
	}
	if p.Properties != nil {
		w.Properties = &wireProperties{Entries: p.Properties}
	}
	if len(p.Dependencies) > 0 {
		w.Dependencies = &wireDependencyList{Dependency: fromDependencies(p.Dependencies)}
	}
	if p.DependencyManagement != nil {
		w.DependencyManagement = &wireDependencyManagement{
			Dependencies: wireDependencyList{Dependency: fromDependencies(p.DependencyManagement.Dependencies)},
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(w); err != nil {
		return nil, rerr.New(rerr.ParseError, p.ArtifactID, fmt.Errorf("serializing POM: %w", err))
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func fromDependencies(deps []Dependency) []wireDependency {
	wds := make([]wireDependency, len(deps))
	for i, d := range deps {
		wd := wireDependency{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
		if d.Version != nil {
			wd.Version = *d.Version
		}
		if d.Scope != nil {
			wd.Scope = string(*d.Scope)
		}
		if d.Type != nil {
			wd.Type = *d.Type
		}
		if d.Optional != nil && *d.Optional {
			wd.Optional = "true"
		}
		wds[i] = wd
	}
	return wds
}
