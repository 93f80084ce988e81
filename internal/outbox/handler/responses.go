package handler

import (
	"time"

	"doctrack/internal/outbox/models"
	"doctrack/internal/outbox/routing"
	id "doctrack/pkg/domain"
)

// splitWireTimestamp renders a timestamp as the wire's separate date and time
// strings. Nil renders both halves empty.
func splitWireTimestamp(t *time.Time) (string, string) {
	if t == nil {
		return "", ""
	}
	return t.Format(wireDateLayout), t.Format(wireTimeLayout)
}

type destinationResponse struct {
	ID                    id.DestinationID `json:"id"`
	DocumentSourceID      id.DocumentID    `json:"documentSourceId"`
	SequenceNo            int              `json:"sequenceNo"`
	DestinationOffice     string           `json:"destinationOffice"`
	EmployeeActionOfficer string           `json:"employeeActionOfficer"`
	ActionRequired        string           `json:"actionRequired"`
	RequiredDays          *int             `json:"requiredDays"`
	DateReleased          string           `json:"dateReleased"`
	TimeReleased          string           `json:"timeReleased"`
	DateRequired          string           `json:"dateRequired"`
	TimeRequired          string           `json:"timeRequired"`
	DateReceived          string           `json:"dateReceived"`
	TimeReceived          string           `json:"timeReceived"`
	DateActedUpon         string           `json:"dateActedUpon"`
	TimeActedUpon         string           `json:"timeActedUpon"`
	Remarks               string           `json:"remarks"`
	ActionTaken           string           `json:"actionTaken"`
	RemarksOnActionTaken  string           `json:"remarksOnActionTaken"`
	Status                string           `json:"status"`
}

func toDestinationResponse(d *models.Destination, now time.Time) destinationResponse {
	resp := destinationResponse{
		ID:                    d.ID,
		DocumentSourceID:      d.DocumentID,
		SequenceNo:            d.SequenceNo,
		DestinationOffice:     d.DestinationOffice,
		EmployeeActionOfficer: d.EmployeeActionOfficer,
		ActionRequired:        d.ActionRequired,
		RequiredDays:          d.RequiredDays,
		Remarks:               d.Remarks,
		ActionTaken:           d.ActionTaken,
		RemarksOnActionTaken:  d.RemarksOnActionTaken,
		Status:                string(d.StatusAt(now)),
	}
	resp.DateReleased, resp.TimeReleased = splitWireTimestamp(d.ReleasedAt)
	resp.DateRequired, resp.TimeRequired = splitWireTimestamp(d.RequiredAt)
	resp.DateReceived, resp.TimeReceived = splitWireTimestamp(d.ReceivedAt)
	resp.DateActedUpon, resp.TimeActedUpon = splitWireTimestamp(d.ActedUponAt)
	return resp
}

func toDestinationResponses(ds []*models.Destination, now time.Time) []destinationResponse {
	out := make([]destinationResponse, len(ds))
	for i, d := range ds {
		out[i] = toDestinationResponse(d, now)
	}
	return out
}

type documentResponse struct {
	ID                          id.DocumentID `json:"id"`
	DocumentControlNo           string        `json:"documentControlNo"`
	RouteNo                     string        `json:"routeNo"`
	DocumentType                string        `json:"documentType"`
	SourceType                  string        `json:"sourceType"`
	InternalOriginatingOffice   string        `json:"internalOriginatingOffice"`
	InternalOriginatingEmployee string        `json:"internalOriginatingEmployee"`
	ExternalOriginatingOffice   string        `json:"externalOriginatingOffice"`
	ExternalOriginatingEmployee string        `json:"externalOriginatingEmployee"`
	Subject                     string        `json:"subject"`
	Remarks                     string        `json:"remarks"`
	NoOfPages                   int           `json:"noOfPages"`
	AttachedDocumentFilename    string        `json:"attachedDocumentFilename"`
	AttachmentList              string        `json:"attachmentList"`
	ReferenceDocumentControlNo1 string        `json:"referenceDocumentControlNo1"`
	ReferenceDocumentControlNo2 string        `json:"referenceDocumentControlNo2"`
	ReferenceDocumentControlNo3 string        `json:"referenceDocumentControlNo3"`
	ReferenceDocumentControlNo4 string        `json:"referenceDocumentControlNo4"`
	ReferenceDocumentControlNo5 string        `json:"referenceDocumentControlNo5"`
	CreatedAt                   time.Time     `json:"createdAt"`
}

func toDocumentResponse(d *models.Document) documentResponse {
	return documentResponse{
		ID:                          d.ID,
		DocumentControlNo:           d.DocumentControlNo,
		RouteNo:                     d.RouteNo,
		DocumentType:                d.DocumentType,
		SourceType:                  string(d.SourceType),
		InternalOriginatingOffice:   d.InternalOriginatingOffice,
		InternalOriginatingEmployee: d.InternalOriginatingEmployee,
		ExternalOriginatingOffice:   d.ExternalOriginatingOffice,
		ExternalOriginatingEmployee: d.ExternalOriginatingEmployee,
		Subject:                     d.Subject,
		Remarks:                     d.Remarks,
		NoOfPages:                   d.NoOfPages,
		AttachedDocumentFilename:    d.AttachedDocumentFilename,
		AttachmentList:              d.AttachmentList,
		ReferenceDocumentControlNo1: d.ReferenceDocumentControlNos[0],
		ReferenceDocumentControlNo2: d.ReferenceDocumentControlNos[1],
		ReferenceDocumentControlNo3: d.ReferenceDocumentControlNos[2],
		ReferenceDocumentControlNo4: d.ReferenceDocumentControlNos[3],
		ReferenceDocumentControlNo5: d.ReferenceDocumentControlNos[4],
		CreatedAt:                   d.CreatedAt,
	}
}

type createDocumentResponse struct {
	Document     documentResponse      `json:"document"`
	Destinations []destinationResponse `json:"destinations"`
	SLAMisses    []routing.SLAMiss     `json:"slaMisses,omitempty"`
}

type addDestinationsResponse struct {
	Destinations []destinationResponse `json:"destinations"`
	SLAMisses    []routing.SLAMiss     `json:"slaMisses,omitempty"`
}

type statusResponse struct {
	DocumentID   id.DocumentID         `json:"documentId"`
	Status       string                `json:"status"`
	Destinations []destinationResponse `json:"destinations"`
}
