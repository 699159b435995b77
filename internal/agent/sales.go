package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/katakuxiko/agentchat/internal/model"
	"github.com/katakuxiko/agentchat/internal/store"
)

const NoSalesRecords = "No matching sales records found."

var ErrUnsafeQuery = errors.New("agent: generated SQL is not a single read-only query")

// SQLModel is the chat model that writes and explains SQL.
type SQLModel interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

type SalesQuerier interface {
	Query(ctx context.Context, q string) (store.Result, error)
	Schema() string
}

// leadingSQL finds a statement opening a line in any case; inlineSQL finds
// an upper-case one after prose on the same line. REPLACE is not a write
// keyword here since it is also a string function, and REPLACE INTO fails on
// the read-only connection anyway.
var (
	fencedSQL   = regexp.MustCompile("(?s)```(?:sql|sqlite)?\\s*(.*?)```")
	leadingSQL  = regexp.MustCompile(`(?is)(?:^|\n)[ \t]*(?:select\b|with\s+\w+(?:\s*\([^)]*\))?\s+as\s*\().*`)
	inlineSQL   = regexp.MustCompile(`(?s)(?:\bSELECT\b|\bWITH\s+\w+(?:\s*\([^)]*\))?\s+AS\s*\().*`)
	cteStart    = regexp.MustCompile(`(?i)^with\s+\w+(?:\s*\([^)]*\))?\s+as\s*\(`)
	selectKw    = regexp.MustCompile(`(?i)\bselect\b`)
	quoted      = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"`)
	writeSQL    = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|attach|detach|pragma|vacuum|truncate|grant|revoke)\b`)
	placeholder = regexp.MustCompile(`(?i)[(\[]\s*(list|insert|enter|add|fill in)\s+the\b`)
)

// Sales answers questions about the sales database. The model writes one
// SELECT, the query runs, and the model phrases the answer from the rows.
type Sales struct {
	llm SQLModel
	db  SalesQuerier
}

func NewSales(llm SQLModel, db SalesQuerier) (*Sales, error) {
	if llm == nil {
		return nil, errors.New("agent: sql model must not be nil")
	}
	if db == nil {
		return nil, errors.New("agent: sales database must not be nil")
	}
	return &Sales{llm: llm, db: db}, nil
}

func (s *Sales) Route() model.Route { return model.RouteSalesData }

func (s *Sales) Answer(ctx context.Context, req Request) (string, error) {
	raw, err := s.llm.Chat(ctx, sqlWriterPrompt(s.db.Schema()), req.Query)
	if err != nil {
		return "", fmt.Errorf("write sql: %w", err)
	}
	q, err := extractSQL(raw)
	if err != nil {
		return "", err
	}

	res, err := s.db.Query(ctx, q)
	if err != nil {
		return "", err
	}
	if res.Empty() {
		return NoSalesRecords, nil
	}

	answer, err := s.llm.Chat(ctx, sqlAnswerPrompt(), answerInput(req.Query, q, res))
	if err != nil || answer == "" || placeholder.MatchString(answer) {
		// the rows are still a usable answer
		return joinRows(res), nil
	}
	return answer, nil
}

// extractSQL pulls one statement out of a model reply, preferring a fenced
// code block, and rejects anything that is not a single read query. String
// literals are ignored when looking for statement separators and keywords.
func extractSQL(raw string) (string, error) {
	q := raw
	if m := fencedSQL.FindStringSubmatch(raw); m != nil {
		q = m[1]
	} else if m := leadingSQL.FindString(raw); m != "" {
		q = untilBlankLine(m)
	} else if m := inlineSQL.FindString(raw); m != "" {
		q = untilBlankLine(m)
	}
	q = strings.TrimRight(strings.TrimSpace(q), "; \n\t")

	bare := quoted.ReplaceAllString(q, "''")
	lower := strings.ToLower(bare)
	switch {
	case q == "":
		return "", fmt.Errorf("%w: empty", ErrUnsafeQuery)
	case !strings.HasPrefix(lower, "select") && !(cteStart.MatchString(bare) && selectKw.MatchString(bare)):
		return "", fmt.Errorf("%w: %q", ErrUnsafeQuery, q)
	case strings.Contains(bare, ";"):
		return "", fmt.Errorf("%w: multiple statements", ErrUnsafeQuery)
	case writeSQL.MatchString(bare):
		return "", fmt.Errorf("%w: write keyword", ErrUnsafeQuery)
	}
	return q, nil
}

// untilBlankLine drops any explanation the model wrote after the statement.
func untilBlankLine(s string) string {
	s = strings.TrimLeft(s, "\r\n")
	if i := strings.Index(s, "\n\n"); i >= 0 {
		return s[:i]
	}
	return s
}

func joinRows(res store.Result) string {
	rows := make([]string, len(res.Rows))
	for i, r := range res.Rows {
		rows[i] = strings.Join(r, " ")
	}
	return strings.Join(rows, ", ")
}

func sqlWriterPrompt(schema string) string {
	return strings.Join([]string{
		"You are a SQLite data expert.",
		"Write exactly one read-only SQL SELECT statement that answers the user's question.",
		"Always look up the data in the database; never invent values.",
		"Compare names case-insensitively with LOWER().",
		"Return only the SQL inside a ```sql code block, with no explanation.",
		"",
		"Schema:",
		schema,
	}, "\n")
}

func sqlAnswerPrompt() string {
	return strings.Join([]string{
		"You are a SQLite data expert.",
		"Answer the question using only the query result provided.",
		"Always return only the exact answer to the question, without placeholders like (list the amounts...).",
		"If multiple values match, list them all separated by commas.",
		"Do not explain the SQL query.",
	}, "\n")
}

func answerInput(question, q string, res store.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\nSQL: %s\n\nResult (%d rows):\n", question, q, len(res.Rows))
	sb.WriteString(strings.Join(res.Columns, " | "))
	for _, r := range res.Rows {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(r, " | "))
	}
	return sb.String()
}
