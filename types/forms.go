package types

import "strings"

// Address is a postal address as the vendor expects it
type Address struct {
	StreetLine1 string `json:"street_line_1" validate:"required"`
	StreetLine2 string `json:"street_line_2,omitempty"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	PostalCode  string `json:"postal_code" validate:"required"`
	Country     string `json:"country" validate:"required"`
}

func (a Address) without(prefix string, fields RequestedFieldSet) Address {
	for _, path := range fields {
		name := path
		if prefix != "" {
			if !strings.HasPrefix(path, prefix) {
				continue
			}
			name = strings.TrimPrefix(path, prefix)
		}
		switch name {
		case "street_line_1":
			a.StreetLine1 = ""
		case "street_line_2":
			a.StreetLine2 = ""
		case "city":
			a.City = ""
		case "state", "subdivision":
			a.State = ""
		case "postal_code":
			a.PostalCode = ""
		case "country":
			a.Country = ""
		}
	}
	return a
}

// KycDraft is the individual KYC form
type KycDraft struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	BirthDate string  `json:"birth_date" validate:"required,birthdate"`
	SSN       string  `json:"ssn" validate:"required,us_ssn"`
	Address   Address `json:"address"`
	IDFront   string  `json:"id_front" validate:"required"`
	IDBack    string  `json:"id_back" validate:"required"`
}

// Without returns a copy with every requested field cleared
func (d KycDraft) Without(fields RequestedFieldSet) KycDraft {
	for _, path := range fields {
		switch leaf(path) {
		case "first_name":
			d.FirstName = ""
		case "last_name":
			d.LastName = ""
		case "email":
			d.Email = ""
		case "birth_date":
			d.BirthDate = ""
		case "ssn":
			d.SSN = ""
		case "id_front":
			d.IDFront = ""
		case "id_back":
			d.IDBack = ""
		}
	}
	d.Address = d.Address.without("address.", fields)
	return d
}

// ControlPersonDraft is the first page of the KYB wizard
type ControlPersonDraft struct {
	FirstName           string  `json:"first_name" validate:"required"`
	LastName            string  `json:"last_name" validate:"required"`
	Email               string  `json:"email" validate:"required,email"`
	BirthDate           string  `json:"birth_date" validate:"required,birthdate"`
	SSN                 string  `json:"ssn" validate:"required,us_ssn"`
	Title               string  `json:"title" validate:"required"`
	OwnershipPercentage string  `json:"ownership_percentage" validate:"required,percent"`
	Address             Address `json:"address"`
	IDFront             string  `json:"id_front,omitempty"`
	IDBack              string  `json:"id_back,omitempty"`
}

// Without returns a copy with every requested control person field cleared
func (d ControlPersonDraft) Without(fields RequestedFieldSet) ControlPersonDraft {
	for _, path := range fields {
		name, prefixed := strings.CutPrefix(path, "control_person.")
		// a bare "email" is the business email
		if name == "email" && !prefixed {
			continue
		}
		switch name {
		case "first_name":
			d.FirstName = ""
		case "last_name":
			d.LastName = ""
		case "email", "control_person_email":
			d.Email = ""
		case "birth_date":
			d.BirthDate = ""
		case "ssn":
			d.SSN = ""
		case "title":
			d.Title = ""
		case "ownership_percentage":
			d.OwnershipPercentage = ""
		case "id_front":
			d.IDFront = ""
		case "id_back":
			d.IDBack = ""
		}
	}
	d.Address = d.Address.without("control_person.address.", fields)
	return d
}

// BusinessDocumentsDraft is the second page of the KYB wizard
type BusinessDocumentsDraft struct {
	BusinessName        string                  `json:"business_name" validate:"required"`
	EIN                 string                  `json:"ein" validate:"required,us_ein"`
	Email               string                  `json:"email" validate:"required,email"`
	BusinessType        string                  `json:"business_type" validate:"required"`
	BusinessIndustry    string                  `json:"business_industry,omitempty"`
	BusinessDescription string                  `json:"business_description,omitempty"`
	PrimaryWebsite      string                  `json:"primary_website,omitempty" validate:"omitempty,url"`
	SourceOfFunds       string                  `json:"source_of_funds" validate:"required"`
	AccountPurpose      string                  `json:"account_purpose,omitempty"`
	PhysicalAddress     Address                 `json:"physical_address"`
	Documents           map[DocumentKind]string `json:"documents,omitempty"`
}

// Without returns a copy with every requested business field cleared
func (d BusinessDocumentsDraft) Without(fields RequestedFieldSet) BusinessDocumentsDraft {
	var docs map[DocumentKind]string
	if d.Documents != nil {
		docs = make(map[DocumentKind]string, len(d.Documents))
		for k, v := range d.Documents {
			docs[k] = v
		}
	}
	for _, path := range fields {
		if strings.HasPrefix(path, "control_person.") {
			continue
		}
		switch path {
		case "business_name":
			d.BusinessName = ""
		case "ein":
			d.EIN = ""
		case "email":
			d.Email = ""
		case "business_type":
			d.BusinessType = ""
		case "business_industry":
			d.BusinessIndustry = ""
		case "business_description":
			d.BusinessDescription = ""
		case "primary_website":
			d.PrimaryWebsite = ""
		case "source_of_funds":
			d.SourceOfFunds = ""
		case "account_purpose":
			d.AccountPurpose = ""
		case "street_line_1":
			d.PhysicalAddress.StreetLine1 = ""
		default:
			if docs != nil {
				delete(docs, DocumentKind(path))
			}
		}
	}
	d.PhysicalAddress = d.PhysicalAddress.without("physical_address.", fields)
	d.Documents = docs
	return d
}
