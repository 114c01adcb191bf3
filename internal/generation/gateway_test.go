package generation_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/flashcards-api/internal/generation"
	"github.com/phrazzld/flashcards-api/internal/metrics"
	"github.com/phrazzld/flashcards-api/internal/mocks"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCardCount = 10

func newGateway(t *testing.T, completer generation.Completer) (*generation.Gateway, *metrics.Metrics) {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	m := metrics.New(prometheus.NewRegistry())
	gw, err := generation.NewGateway(completer, generation.Config{
		CardCount:     testCardCount,
		MaxInputChars: 100,
		Timeout:       time.Second,
	}, log, m)
	require.NoError(t, err)
	return gw, m
}

func TestGateway_Generate_ReturnsExactlyCardCount(t *testing.T) {
	completer := mocks.NewMockCompleterWithCards(testCardCount)
	gw, m := newGateway(t, completer)

	cards, err := gw.Generate(context.Background(), "Photosynthesis converts light into chemical energy.")

	require.NoError(t, err)
	require.Len(t, cards, testCardCount)
	assert.Equal(t, "Question 1", cards[0].Front)
	assert.Equal(t, "Answer 10", cards[9].Back)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationRequests.WithLabelValues("mock", metrics.OutcomeSuccess)))
}

func TestGateway_Generate_TruncatesExtraCards(t *testing.T) {
	gw, _ := newGateway(t, mocks.NewMockCompleterWithCards(testCardCount+3))

	cards, err := gw.Generate(context.Background(), "some text")

	require.NoError(t, err)
	assert.Len(t, cards, testCardCount)
	assert.Equal(t, "Question 10", cards[9].Front)
}

func TestGateway_Generate_SendsPromptAndRawText(t *testing.T) {
	completer := mocks.NewMockCompleterWithCards(testCardCount)
	gw, _ := newGateway(t, completer)

	raw := "  The mitochondria is the powerhouse of the cell.\n"
	_, err := gw.Generate(context.Background(), raw)
	require.NoError(t, err)

	reqs := completer.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, raw, reqs[0].UserText, "user text should be sent verbatim")
	assert.Contains(t, reqs[0].SystemPrompt, "exactly 10 flashcards")
	assert.Contains(t, reqs[0].SystemPrompt, `"flashcards"`)
}

func TestGateway_Generate_InputBounds(t *testing.T) {
	completer := mocks.NewMockCompleterWithCards(testCardCount)
	gw, _ := newGateway(t, completer)

	_, err := gw.Generate(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, generation.ErrEmptyInput)

	_, err = gw.Generate(context.Background(), strings.Repeat("ß", 101))
	assert.ErrorIs(t, err, generation.ErrInputTooLong)

	_, err = gw.Generate(context.Background(), strings.Repeat("ß", 100))
	assert.NoError(t, err, "limit is inclusive and counted in characters")

	assert.Equal(t, 1, completer.CallCount(), "rejected input must not reach the provider")
}

func TestGateway_Generate_UpstreamError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport failure", errors.New("dial tcp: connection refused")},
		{"already classified", generation.ErrContentBlocked},
		{"deadline", context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, m := newGateway(t, &mocks.MockCompleter{Err: tt.err})

			cards, err := gw.Generate(context.Background(), "text")

			assert.Nil(t, cards)
			assert.ErrorIs(t, err, generation.ErrUpstream)
			assert.ErrorIs(t, err, tt.err)
			assert.False(t, errors.Is(err, generation.ErrMalformedResponse))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationRequests.WithLabelValues("mock", metrics.OutcomeUpstream)))
		})
	}
}

func TestGateway_Generate_MalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "Here are your flashcards!"},
		{"missing key", `{"cards":[{"front":"a","back":"b"}]}`},
		{"wrong type", `{"flashcards":"none"}`},
		{"too few", mocks.FlashcardsJSON(testCardCount - 1)},
		{"empty back", strings.Replace(mocks.FlashcardsJSON(testCardCount), `"Answer 3"`, `""`, 1)},
		{"empty body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, m := newGateway(t, &mocks.MockCompleter{Response: tt.response})

			cards, err := gw.Generate(context.Background(), "text")

			assert.Nil(t, cards)
			assert.ErrorIs(t, err, generation.ErrMalformedResponse)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationRequests.WithLabelValues("mock", metrics.OutcomeMalformed)))
		})
	}
}

func TestGateway_Generate_AppliesTimeout(t *testing.T) {
	completer := &mocks.MockCompleter{
		CompleteFn: func(ctx context.Context, req generation.CompletionRequest) (string, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok, "completion context should carry a deadline")
			assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
			return mocks.FlashcardsJSON(testCardCount), nil
		},
	}
	gw, _ := newGateway(t, completer)

	_, err := gw.Generate(context.Background(), "text")
	assert.NoError(t, err)
}

func TestNewGateway_InvalidConfig(t *testing.T) {
	completer := mocks.NewMockCompleterWithCards(1)

	_, err := generation.NewGateway(nil, generation.Config{CardCount: 1, MaxInputChars: 1}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = generation.NewGateway(completer, generation.Config{CardCount: 0, MaxInputChars: 1}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = generation.NewGateway(completer, generation.Config{CardCount: 1, MaxInputChars: 0}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = generation.NewGateway(completer, generation.Config{
		CardCount: 1, MaxInputChars: 1, PromptTemplate: "{{.Missing",
	}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewGateway_CustomTemplate(t *testing.T) {
	completer := mocks.NewMockCompleterWithCards(3)
	gw, err := generation.NewGateway(completer, generation.Config{
		CardCount:      3,
		MaxInputChars:  50,
		PromptTemplate: "Make {{.CardCount}} cards as JSON.",
	}, nil, nil)
	require.NoError(t, err)

	cards, err := gw.Generate(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, cards, 3)
	assert.Equal(t, 3, gw.CardCount())
	assert.Equal(t, "Make 3 cards as JSON.", completer.Requests()[0].SystemPrompt)
}
