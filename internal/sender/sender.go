package sender

import (
	"context"
	"errors"
	"strconv"

	"github.com/rezonia/einvoice-submit/internal/archive"
	"github.com/rezonia/einvoice-submit/internal/cdr"
	"github.com/rezonia/einvoice-submit/internal/errcode"
	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/ws"
)

// Sender submits one signed document under its canonical filename
type Sender interface {
	Send(ctx context.Context, filename string, xml []byte) (*model.Result, error)
}

// Fallback messages when the catalog has no entry for a status code
const (
	msgPending    = "El proceso de envío aún no ha terminado"
	msgWithErrors = "El proceso terminó con errores"
)

// BillSender submits documents that get an immediate receipt
type BillSender struct {
	transport Transport
	catalog   errcode.Catalog
}

// NewBillSender creates a synchronous sender
func NewBillSender(t Transport, catalog errcode.Catalog) *BillSender {
	return &BillSender{transport: t, catalog: catalog}
}

// Send implements Sender
func (s *BillSender) Send(ctx context.Context, filename string, xml []byte) (*model.Result, error) {
	zipped, err := archive.Compress(filename+".xml", xml)
	if err != nil {
		return nil, err
	}

	reply, err := s.transport.SendBill(ctx, filename+".zip", zipped)
	if err != nil {
		return faultResult(err, s.catalog)
	}

	receipt, err := cdr.Extract(reply)
	if err != nil {
		return nil, err
	}
	return &model.Result{Success: true, CDRResponse: receipt, CDRZip: reply}, nil
}

// SummarySender submits batches processed asynchronously behind a ticket
type SummarySender struct {
	transport Transport
	catalog   errcode.Catalog
}

// NewSummarySender creates an asynchronous sender
func NewSummarySender(t Transport, catalog errcode.Catalog) *SummarySender {
	return &SummarySender{transport: t, catalog: catalog}
}

// Send implements Sender
func (s *SummarySender) Send(ctx context.Context, filename string, xml []byte) (*model.Result, error) {
	zipped, err := archive.Compress(filename+".xml", xml)
	if err != nil {
		return nil, err
	}

	ticket, err := s.transport.SendSummary(ctx, filename+".zip", zipped)
	if err != nil {
		return faultResult(err, s.catalog)
	}
	if ticket == "" {
		return nil, model.ErrMalformedResponse("ticket", "empty ticket")
	}
	return &model.Result{Success: true, Ticket: ticket}, nil
}

// StatusService queries the state of asynchronous submissions
type StatusService struct {
	transport Transport
	catalog   errcode.Catalog
}

// NewStatusService creates a status service
func NewStatusService(t Transport, catalog errcode.Catalog) *StatusService {
	return &StatusService{transport: t, catalog: catalog}
}

// GetStatus performs a single status query for ticket
func (s *StatusService) GetStatus(ctx context.Context, ticket string) (*model.StatusResult, error) {
	reply, err := s.transport.GetStatus(ctx, ticket)
	if err != nil {
		res, ferr := faultResult(err, s.catalog)
		if ferr != nil {
			return nil, ferr
		}
		return &model.StatusResult{Result: *res}, nil
	}

	result := &model.StatusResult{Code: reply.Code}
	if reply.Code == model.StatusPending || len(reply.Content) == 0 {
		result.Error = s.statusError(reply.Code)
		return result, nil
	}

	receipt, err := cdr.Extract(reply.Content)
	if err != nil {
		return nil, err
	}
	result.Success = true
	result.CDRResponse = receipt
	result.CDRZip = reply.Content
	return result, nil
}

func (s *StatusService) statusError(code string) *model.Error {
	msg := lookup(s.catalog, code)
	if msg == "" {
		switch n, _ := strconv.Atoi(code); n {
		case 98:
			msg = msgPending
		case 99:
			msg = msgWithErrors
		}
	}
	return &model.Error{Code: code, Message: msg}
}

// faultResult turns a fault into an error result; other errors pass through
func faultResult(err error, catalog errcode.Catalog) (*model.Result, error) {
	var fault *ws.Fault
	if errors.As(err, &fault) {
		return model.NewErrorResult(Translate(fault, catalog)), nil
	}
	return nil, err
}
