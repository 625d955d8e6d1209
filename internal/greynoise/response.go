package greynoise

import "encoding/json"

// Response is the subset of the GreyNoise v3 IP payload the connector
// consumes. Anything else stays in the raw payload map.
type Response struct {
	IP              string           `json:"ip"`
	BusinessService map[string]any   `json:"business_service_intelligence"`
	InternetScanner *InternetScanner `json:"internet_scanner_intelligence"`
	RequestMetadata *RequestMetadata `json:"request_metadata"`
}

type InternetScanner struct {
	Seen           bool           `json:"seen"`
	Found          bool           `json:"found"`
	Classification string         `json:"classification"`
	FirstSeen      string         `json:"first_seen"`
	LastSeen       string         `json:"last_seen"`
	Actor          string         `json:"actor"`
	Bot            bool           `json:"bot"`
	VPN            bool           `json:"vpn"`
	Tags           Tags           `json:"tags"`
	Metadata       map[string]any `json:"metadata"`
}

type RequestMetadata struct {
	Country      string `json:"country"`
	ASN          string `json:"asn"`
	Organization string `json:"organization"`
}

// Tags accepts both encodings the API uses: a plain string array and
// an array of tag objects with a "name" field.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) (err error) {
	var plain []string
	err = json.Unmarshal(data, &plain)
	if err == nil {
		*t = plain
		return nil
	}

	var objects []struct {
		Name string `json:"name"`
	}
	err = json.Unmarshal(data, &objects)
	if err != nil {
		return err
	}

	*t = make(Tags, len(objects))
	for i, object := range objects {
		(*t)[i] = object.Name
	}
	return nil
}
