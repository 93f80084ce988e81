package handler

import (
	"strings"
	"time"

	"doctrack/internal/outbox/models"
	"doctrack/internal/outbox/routing"
	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
)

const (
	wireDateLayout = "2006-01-02"
	wireTimeLayout = "15:04:05"
)

// parseWireTimestamp combines the wire's split date and time strings into one
// instant. The time half is optional and defaults to midnight; a time without
// a date is rejected.
func parseWireTimestamp(field, dateStr, timeStr string) (*time.Time, error) {
	if dateStr == "" {
		if timeStr != "" {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"time%s requires date%s", field, field)
		}
		return nil, nil
	}
	layout := wireDateLayout
	raw := dateStr
	if timeStr != "" {
		layout = wireDateLayout + " " + wireTimeLayout
		raw = dateStr + " " + timeStr
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"date%s/time%s is not a valid timestamp", field, field)
	}
	return &t, nil
}

type destinationRequest struct {
	DestinationOffice     string `json:"destinationOffice"`
	EmployeeActionOfficer string `json:"employeeActionOfficer"`
	ActionRequired        string `json:"actionRequired"`
	SequenceNo            int    `json:"sequenceNo"`
	DateRequired          string `json:"dateRequired"`
	TimeRequired          string `json:"timeRequired"`
	Remarks               string `json:"remarks"`
}

func (d destinationRequest) toPlannerRequest() (routing.Request, error) {
	requiredAt, err := parseWireTimestamp("Required", d.DateRequired, d.TimeRequired)
	if err != nil {
		return routing.Request{}, err
	}
	return routing.Request{
		DestinationOffice:     d.DestinationOffice,
		EmployeeActionOfficer: d.EmployeeActionOfficer,
		ActionRequired:        d.ActionRequired,
		SequenceNo:            d.SequenceNo,
		RequiredAt:            requiredAt,
		Remarks:               d.Remarks,
	}, nil
}

type createDocumentRequest struct {
	DocumentControlNo           string `json:"documentControlNo"`
	RouteNo                     string `json:"routeNo"`
	DocumentType                string `json:"documentType"`
	SourceType                  string `json:"sourceType"`
	InternalOriginatingOffice   string `json:"internalOriginatingOffice"`
	InternalOriginatingEmployee string `json:"internalOriginatingEmployee"`
	ExternalOriginatingOffice   string `json:"externalOriginatingOffice"`
	ExternalOriginatingEmployee string `json:"externalOriginatingEmployee"`
	Subject                     string `json:"subject"`
	Remarks                     string `json:"remarks"`
	NoOfPages                   int    `json:"noOfPages"`
	AttachedDocumentFilename    string `json:"attachedDocumentFilename"`
	AttachmentList              string `json:"attachmentList"`
	ReferenceDocumentControlNo1 string `json:"referenceDocumentControlNo1"`
	ReferenceDocumentControlNo2 string `json:"referenceDocumentControlNo2"`
	ReferenceDocumentControlNo3 string `json:"referenceDocumentControlNo3"`
	ReferenceDocumentControlNo4 string `json:"referenceDocumentControlNo4"`
	ReferenceDocumentControlNo5 string `json:"referenceDocumentControlNo5"`

	Destinations []destinationRequest `json:"destinations"`
}

// Validate checks only what the handler owns: presence of the routing slip and
// parseable timestamps. Field-level document rules live on the model so the
// service applies them on every path.
func (r createDocumentRequest) Validate() error {
	if len(r.Destinations) == 0 {
		return dErrors.New(dErrors.CodeValidation, "destinations must not be empty")
	}
	for _, d := range r.Destinations {
		if _, err := parseWireTimestamp("Required", d.DateRequired, d.TimeRequired); err != nil {
			return err
		}
	}
	return nil
}

func (r createDocumentRequest) toModel() *models.Document {
	return &models.Document{
		DocumentControlNo:           r.DocumentControlNo,
		RouteNo:                     r.RouteNo,
		DocumentType:                r.DocumentType,
		SourceType:                  models.SourceType(r.SourceType),
		InternalOriginatingOffice:   r.InternalOriginatingOffice,
		InternalOriginatingEmployee: r.InternalOriginatingEmployee,
		ExternalOriginatingOffice:   r.ExternalOriginatingOffice,
		ExternalOriginatingEmployee: r.ExternalOriginatingEmployee,
		Subject:                     r.Subject,
		Remarks:                     r.Remarks,
		NoOfPages:                   r.NoOfPages,
		AttachedDocumentFilename:    r.AttachedDocumentFilename,
		AttachmentList:              r.AttachmentList,
		ReferenceDocumentControlNos: [5]string{
			r.ReferenceDocumentControlNo1,
			r.ReferenceDocumentControlNo2,
			r.ReferenceDocumentControlNo3,
			r.ReferenceDocumentControlNo4,
			r.ReferenceDocumentControlNo5,
		},
	}
}

func (r createDocumentRequest) toPlannerRequests() ([]routing.Request, error) {
	out := make([]routing.Request, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		req, err := d.toPlannerRequest()
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

type addDestinationsRequest struct {
	Destinations []destinationRequest `json:"destinations"`
}

func (r addDestinationsRequest) Validate() error {
	if len(r.Destinations) == 0 {
		return dErrors.New(dErrors.CodeValidation, "destinations must not be empty")
	}
	return nil
}

func (r addDestinationsRequest) toPlannerRequests() ([]routing.Request, error) {
	out := make([]routing.Request, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		req, err := d.toPlannerRequest()
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// transitionRequest carries the optional explicit timestamp of a release,
// receive, or act call. An empty pair means "now" (the request time).
type transitionRequest struct {
	Date string
	Time string
}

func (r transitionRequest) at(field string, now time.Time) (time.Time, error) {
	t, err := parseWireTimestamp(field, r.Date, r.Time)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return now, nil
	}
	return *t, nil
}

type releaseRequest struct {
	DateReleased string `json:"dateReleased"`
	TimeReleased string `json:"timeReleased"`
}

func (r releaseRequest) Validate() error {
	_, err := parseWireTimestamp("Released", r.DateReleased, r.TimeReleased)
	return err
}

type receiveRequest struct {
	DateReceived string `json:"dateReceived"`
	TimeReceived string `json:"timeReceived"`
}

func (r receiveRequest) Validate() error {
	_, err := parseWireTimestamp("Received", r.DateReceived, r.TimeReceived)
	return err
}

type actRequest struct {
	DateActedUpon        string `json:"dateActedUpon"`
	TimeActedUpon        string `json:"timeActedUpon"`
	ActionTaken          string `json:"actionTaken"`
	RemarksOnActionTaken string `json:"remarksOnActionTaken"`
}

func (r actRequest) Validate() error {
	if strings.TrimSpace(r.ActionTaken) == "" {
		return dErrors.New(dErrors.CodeValidation, "actionTaken is required")
	}
	_, err := parseWireTimestamp("ActedUpon", r.DateActedUpon, r.TimeActedUpon)
	return err
}

type correctRemarksRequest struct {
	RemarksOnActionTaken string `json:"remarksOnActionTaken"`
}

func (r correctRemarksRequest) Validate() error {
	if strings.TrimSpace(r.RemarksOnActionTaken) == "" {
		return dErrors.New(dErrors.CodeValidation, "remarksOnActionTaken is required")
	}
	return nil
}

type bulkDeleteDocumentsRequest struct {
	IDs []id.DocumentID `json:"ids"`
}

func (r bulkDeleteDocumentsRequest) Validate() error {
	if len(r.IDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "ids list is required")
	}
	return nil
}

type bulkDeleteDestinationsRequest struct {
	IDs []id.DestinationID `json:"ids"`
}

func (r bulkDeleteDestinationsRequest) Validate() error {
	if len(r.IDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "ids list is required")
	}
	return nil
}
