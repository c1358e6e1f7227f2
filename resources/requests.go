package resources

import (
	"fmt"
	"maps"
	"time"

	"github.com/synapsepay/go-synapse-client/core"
)

// Request structs carry the arguments of one façade operation. They can be built in code
// or decoded from YAML files by the CLI. Params renders the wire payload.

// Login is one login entry of a new user.
type Login struct {
	Email    string `json:"email" yaml:"email" required:"true" doc:"Login email"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" required:"false" doc:"Login password"`
	Scope    string `json:"scope,omitempty" yaml:"scope,omitempty" required:"false" doc:"Login scope (READ_AND_WRITE, READ)"`
}

type CreateUserRequest struct {
	Email        string   `json:"email,omitempty" yaml:"email,omitempty" required:"false" doc:"Single login email, used when logins is empty"`
	Logins       []Login  `json:"logins,omitempty" yaml:"logins,omitempty" required:"false" doc:"Full login entries"`
	PhoneNumbers []string `json:"phone_numbers" yaml:"phone_numbers" required:"true" doc:"Phone numbers of the user"`
	LegalNames   []string `json:"legal_names" yaml:"legal_names" required:"true" doc:"Legal names of the user"`
	SuppID       string   `json:"supp_id,omitempty" yaml:"supp_id,omitempty" required:"false" doc:"Caller supplied identifier"`
	IsBusiness   bool     `json:"is_business,omitempty" yaml:"is_business,omitempty" required:"false" doc:"Whether the user is a business"`
	Fingerprint  string   `json:"-" yaml:"fingerprint,omitempty" required:"false" doc:"Device fingerprint sent with the request"`
}

func (r CreateUserRequest) Validate() error {
	if err := validateRequired(r); err != nil {
		return err
	}
	if r.Email == "" && len(r.Logins) == 0 {
		return fmt.Errorf("CreateUserRequest: %w: email or logins", ErrMissingField)
	}
	return nil
}

func (r CreateUserRequest) Params() core.Params {
	var logins []any
	if len(r.Logins) > 0 {
		for _, login := range r.Logins {
			entry := core.Params{"email": login.Email}
			entry.SetIf("password", login.Password)
			entry.SetIf("scope", login.Scope)
			logins = append(logins, entry)
		}
	} else {
		logins = []any{core.Params{"email": r.Email}}
	}
	extra := core.Params{"is_business": r.IsBusiness}
	extra.SetIf("supp_id", r.SuppID)
	return core.Params{
		"logins":        logins,
		"phone_numbers": r.PhoneNumbers,
		"legal_names":   r.LegalNames,
		"extra":         extra,
	}
}

// AddDocumentRequest submits a single virtual document (SSN and personal details).
type AddDocumentRequest struct {
	Birthdate     time.Time `json:"birthdate" yaml:"birthdate" required:"true" doc:"Date of birth"`
	FirstName     string    `json:"first_name" yaml:"first_name" required:"true" doc:"First name"`
	LastName      string    `json:"last_name" yaml:"last_name" required:"true" doc:"Last name"`
	Street        string    `json:"street" yaml:"street" required:"true" doc:"Street address"`
	PostalCode    string    `json:"postal_code" yaml:"postal_code" required:"true" doc:"Postal code"`
	CountryCode   string    `json:"country_code" yaml:"country_code" required:"true" doc:"ISO country code"`
	DocumentType  string    `json:"document_type" yaml:"document_type" required:"true" doc:"Document type, e.g. SSN"`
	DocumentValue string    `json:"document_value" yaml:"document_value" required:"true" doc:"Document value"`
}

func (r AddDocumentRequest) Params() core.Params {
	return core.Params{"doc": core.Params{
		"birth_day":            r.Birthdate.Day(),
		"birth_month":          int(r.Birthdate.Month()),
		"birth_year":           r.Birthdate.Year(),
		"name_first":           r.FirstName,
		"name_last":            r.LastName,
		"address_street1":      r.Street,
		"address_postal_code":  r.PostalCode,
		"address_country_code": r.CountryCode,
		"document_type":        r.DocumentType,
		"document_value":       r.DocumentValue,
	}}
}

// KBAAnswer answers one knowledge based authentication question.
type KBAAnswer struct {
	QuestionID int `json:"question_id" yaml:"question_id" required:"true" doc:"Question identifier"`
	AnswerID   int `json:"answer_id" yaml:"answer_id" required:"true" doc:"Chosen answer identifier"`
}

func kbaAnswers(answers []KBAAnswer) []any {
	out := make([]any, 0, len(answers))
	for _, a := range answers {
		out = append(out, core.Params{"question_id": a.QuestionID, "answer_id": a.AnswerID})
	}
	return out
}

// DocumentAttachment is one virtual, physical or social document of a base document.
type DocumentAttachment struct {
	DocumentType  string `json:"document_type" yaml:"document_type" required:"true" doc:"Document type, e.g. SSN, GOVT_ID, FACEBOOK"`
	DocumentValue string `json:"document_value" yaml:"document_value" required:"true" doc:"Document value or data URI"`
}

// BaseDocumentRequest is one base document of the batch KYC flow.
type BaseDocumentRequest struct {
	Email              string               `json:"email" yaml:"email" required:"true" doc:"Contact email"`
	PhoneNumber        string               `json:"phone_number" yaml:"phone_number" required:"true" doc:"Contact phone number"`
	IP                 string               `json:"ip" yaml:"ip" required:"true" doc:"IP address of the user"`
	Name               string               `json:"name" yaml:"name" required:"true" doc:"Full legal name"`
	Alias              string               `json:"alias,omitempty" yaml:"alias,omitempty" required:"false" doc:"Also known as"`
	EntityType         string               `json:"entity_type" yaml:"entity_type" required:"true" doc:"Entity type, e.g. M, F, LLC"`
	EntityScope        string               `json:"entity_scope" yaml:"entity_scope" required:"true" doc:"Entity scope, e.g. Arts & Entertainment"`
	Birthdate          time.Time            `json:"birthdate" yaml:"birthdate" required:"true" doc:"Date of birth or incorporation"`
	AddressStreet      string               `json:"address_street" yaml:"address_street" required:"true" doc:"Street address"`
	AddressCity        string               `json:"address_city" yaml:"address_city" required:"true" doc:"City"`
	AddressSubdivision string               `json:"address_subdivision" yaml:"address_subdivision" required:"true" doc:"State or province"`
	AddressPostalCode  string               `json:"address_postal_code" yaml:"address_postal_code" required:"true" doc:"Postal code"`
	AddressCountryCode string               `json:"address_country_code" yaml:"address_country_code" required:"true" doc:"ISO country code"`
	VirtualDocs        []DocumentAttachment `json:"virtual_docs,omitempty" yaml:"virtual_docs,omitempty" required:"false" doc:"Virtual documents"`
	PhysicalDocs       []DocumentAttachment `json:"physical_docs,omitempty" yaml:"physical_docs,omitempty" required:"false" doc:"Physical documents"`
	SocialDocs         []DocumentAttachment `json:"social_docs,omitempty" yaml:"social_docs,omitempty" required:"false" doc:"Social documents"`
}

func attachments(docs []DocumentAttachment) []any {
	out := make([]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, core.Params{"document_type": d.DocumentType, "document_value": d.DocumentValue})
	}
	return out
}

func (r BaseDocumentRequest) Params() core.Params {
	return core.Params{"documents": []any{core.Params{
		"email":                r.Email,
		"phone_number":         r.PhoneNumber,
		"ip":                   r.IP,
		"name":                 r.Name,
		"alias":                r.Alias,
		"entity_type":          r.EntityType,
		"entity_scope":         r.EntityScope,
		"day":                  r.Birthdate.Day(),
		"month":                int(r.Birthdate.Month()),
		"year":                 r.Birthdate.Year(),
		"address_street":       r.AddressStreet,
		"address_city":         r.AddressCity,
		"address_subdivision":  r.AddressSubdivision,
		"address_postal_code":  r.AddressPostalCode,
		"address_country_code": r.AddressCountryCode,
		"virtual_docs":         attachments(r.VirtualDocs),
		"physical_docs":        attachments(r.PhysicalDocs),
		"social_docs":          attachments(r.SocialDocs),
	}}}
}

// DocumentKBARequest answers the question set attached to a virtual document.
type DocumentKBARequest struct {
	DocumentsID  string      `json:"documents_id" yaml:"documents_id" required:"true" doc:"Base document identifier"`
	VirtualDocID string      `json:"virtual_doc_id" yaml:"virtual_doc_id" required:"true" doc:"Virtual document identifier"`
	Answers      []KBAAnswer `json:"answers" yaml:"answers" required:"true" doc:"Answers to the question set"`
}

func (r DocumentKBARequest) Params() core.Params {
	return core.Params{"documents": []any{core.Params{
		"id": r.DocumentsID,
		"virtual_docs": []any{core.Params{
			"id": r.VirtualDocID,
			"meta": core.Params{
				"question_set": core.Params{"answers": kbaAnswers(r.Answers)},
			},
		}},
	}}}
}

// BankAccountRequest links a bank account by account and routing number.
type BankAccountRequest struct {
	Name          string `json:"name" yaml:"name" required:"true" doc:"Name on the account"`
	AccountNumber string `json:"account_number" yaml:"account_number" required:"true" doc:"Account number"`
	RoutingNumber string `json:"routing_number" yaml:"routing_number" required:"true" doc:"Routing number"`
	Category      string `json:"category" yaml:"category" required:"true" doc:"PERSONAL or BUSINESS"`
	Type          string `json:"type" yaml:"type" required:"true" doc:"CHECKING or SAVINGS"`
	Nickname      string `json:"nickname,omitempty" yaml:"nickname,omitempty" required:"false" doc:"Node nickname, defaults to name"`
	SuppID        string `json:"supp_id,omitempty" yaml:"supp_id,omitempty" required:"false" doc:"Caller supplied identifier"`
}

func (r BankAccountRequest) Params() core.Params {
	nickname := r.Nickname
	if nickname == "" {
		nickname = r.Name
	}
	payload := core.Params{
		"type": NodeTypeACHUS,
		"info": core.Params{
			"nickname":        nickname,
			"name_on_account": r.Name,
			"account_num":     r.AccountNumber,
			"routing_num":     r.RoutingNumber,
			"type":            r.Category,
			"class":           r.Type,
		},
	}
	if r.SuppID != "" {
		payload["extra"] = core.Params{"supp_id": r.SuppID}
	}
	return payload
}

// BankLoginRequest links every account of an online banking login.
type BankLoginRequest struct {
	BankName string `json:"bank_name" yaml:"bank_name" required:"true" doc:"Institution code, e.g. fake"`
	Username string `json:"username" yaml:"username" required:"true" doc:"Online banking username"`
	Password string `json:"password" yaml:"password" required:"true" doc:"Online banking password"`
}

func (r BankLoginRequest) Params() core.Params {
	return core.Params{
		"type": NodeTypeACHUS,
		"info": core.Params{
			"bank_id":   r.Username,
			"bank_pw":   r.Password,
			"bank_name": r.BankName,
		},
	}
}

// FeeTarget is the node that receives a fee.
type FeeTarget struct {
	ID string `json:"id" yaml:"id" required:"true" doc:"Node receiving the fee"`
}

type Fee struct {
	Fee  float64   `json:"fee" yaml:"fee" required:"true" doc:"Fee amount"`
	Note string    `json:"note,omitempty" yaml:"note,omitempty" required:"false" doc:"Fee note"`
	To   FeeTarget `json:"to" yaml:"to" required:"true" doc:"Fee recipient"`
}

// CreateTransactionRequest sends money from the node the Transactions façade is bound to.
type CreateTransactionRequest struct {
	ToNodeType     string      `json:"to_node_type" yaml:"to_node_type" required:"true" doc:"Destination node type, e.g. ACH-US"`
	ToNodeID       string      `json:"to_node_id" yaml:"to_node_id" required:"true" doc:"Destination node identifier"`
	Amount         float64     `json:"amount" yaml:"amount" required:"true" doc:"Amount to send"`
	Currency       string      `json:"currency" yaml:"currency" required:"true" doc:"Currency code, e.g. USD"`
	IPAddress      string      `json:"ip_address" yaml:"ip_address" required:"true" doc:"IP address of the sender"`
	IdempotencyKey string      `json:"-" yaml:"idempotency_key,omitempty" required:"false" doc:"Key making retries of this transaction safe"`
	Extra          core.Params `json:"extra,omitempty" yaml:"extra,omitempty" required:"false" doc:"Extra transaction fields (supp_id, note, process_on, ...)"`
	Fees           []Fee       `json:"fees,omitempty" yaml:"fees,omitempty" required:"false" doc:"Fees charged on the transaction"`
}

func (r CreateTransactionRequest) Params() core.Params {
	extra := core.Params{}
	maps.Copy(extra, r.Extra)
	extra["ip"] = r.IPAddress
	payload := core.Params{
		"to":     core.Params{"type": r.ToNodeType, "id": r.ToNodeID},
		"amount": core.Params{"amount": r.Amount, "currency": r.Currency},
		"extra":  extra,
	}
	if len(r.Fees) > 0 {
		fees := make([]any, 0, len(r.Fees))
		for _, f := range r.Fees {
			fee := core.Params{"fee": f.Fee, "to": core.Params{"id": f.To.ID}}
			fee.SetIf("note", f.Note)
			fees = append(fees, fee)
		}
		payload["fees"] = fees
	}
	return payload
}

// SendMoneyRequest is a CreateTransactionRequest plus the source node.
type SendMoneyRequest struct {
	CreateTransactionRequest `yaml:",inline"`

	FromNodeID string `json:"from_node_id" yaml:"from_node_id" required:"true" doc:"Source node identifier"`
}
