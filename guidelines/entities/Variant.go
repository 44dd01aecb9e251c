package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

// Variant is a disease subtype (a fracture classification) with its own
// ICD-10 code and patient-group collections. Groups are stored in the source
// document under numbered fields ("group1", "group2", ... or the legacy
// "varik1", "varik2", ...); GroupSets preserves those fields in document
// order, which fixes the synthetic group id assigned to each group.
type Variant struct {
	Name              string     `json:"name"`
	ICD10Code         string     `json:"ICD-10_code"`
	Contraindications []string   `json:"general_contraindications,omitempty"`
	GroupSets         []GroupSet `json:"-"`
}

// GroupSet is one numbered group field of a variant: the field key as it
// appears in the document and the groups listed under it.
type GroupSet struct {
	Key    string
	Groups []Group
}

var groupFieldPattern = regexp.MustCompile(`^(?:group|varik)\d+$`)

// IsGroupField reports whether key names a patient-group collection.
func IsGroupField(key string) bool {
	return groupFieldPattern.MatchString(key)
}

// UnmarshalJSON decodes the fixed variant fields, then walks the raw object
// a second time to collect the numbered group fields in document order.
// Group fields holding anything other than a non-empty array are ignored.
func (v *Variant) UnmarshalJSON(data []byte) error {
	type alias Variant
	var fixed alias
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}
	*v = Variant(fixed)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("variant: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("variant: expected object key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if !IsGroupField(key) {
			continue
		}

		value := bytes.TrimSpace(raw)
		if len(value) == 0 || value[0] != '[' {
			continue
		}
		var groups []Group
		if err := json.Unmarshal(value, &groups); err != nil {
			return fmt.Errorf("variant %q: group field %q: %w", v.Name, key, err)
		}
		if len(groups) == 0 {
			continue
		}
		v.GroupSets = append(v.GroupSets, GroupSet{Key: key, Groups: groups})
	}
	return nil
}

// MarshalJSON emits the fixed fields followed by the group fields under
// their original keys, preserving document order.
func (v Variant) MarshalJSON() ([]byte, error) {
	type alias Variant
	base, err := json.Marshal(alias(v))
	if err != nil {
		return nil, err
	}
	if len(v.GroupSets) == 0 {
		return base, nil
	}

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, set := range v.GroupSets {
		key, err := json.Marshal(set.Key)
		if err != nil {
			return nil, err
		}
		groups, err := json.Marshal(set.Groups)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(groups)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
