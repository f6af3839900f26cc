// Package ofx reads OFX/QFX statements into canonical transactions.
package ofx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(INFO|WARN|ERROR)`)
	// Opening tags at end of line that lost their closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// Sniff reports whether content looks like an OFX document.
func Sniff(content []byte) bool {
	head := content
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.TrimLeft(head, "\ufeff \t\r\n")
	return bytes.HasPrefix(head, []byte("OFXHEADER")) ||
		bytes.Contains(bytes.ToUpper(head), []byte("<OFX>"))
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, "\ufeff \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX document. Every statement transaction becomes one
// canonical row; the account is the statement's account id.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		txns, err := p.convertList(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txns...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		txns, err := p.convertList(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txns...)
	}

	slog.DebugContext(ctx, "Parsed OFX file", "transactions", len(transactions))

	return transactions, nil
}

func (p *Parser) convertList(list []ofxgo.Transaction, account string) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, len(list))
	for i, ofxTx := range list {
		tx, err := p.convertTransaction(ofxTx, account)
		if err != nil {
			var pe *common.ParseError
			if errors.As(err, &pe) {
				pe.Row = i + 1
			}
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// convertTransaction maps one OFX transaction onto the canonical schema.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, account string) (model.Transaction, error) {
	raw := ofxTx.TrnAmt.FloatString(2)
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return model.Transaction{}, &common.ParseError{Field: "amount", Value: raw, Err: err}
	}
	if ofxTx.DtPosted.IsZero() {
		return model.Transaction{}, &common.ParseError{Field: "date", Value: "", Err: fmt.Errorf("missing DTPOSTED")}
	}

	return model.Transaction{
		Account: account,
		Day:     civil.DateOf(ofxTx.DtPosted.Time),
		Info:    fmt.Sprintf("%v", ofxTx.TrnType),
		Orderer: ordererName(ofxTx),
		Reason:  strings.TrimSpace(string(ofxTx.Memo)),
		Value:   value,
	}, nil
}

// ordererName prefers PAYEE over NAME.
func ordererName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	return strings.TrimSpace(string(tx.Name))
}
