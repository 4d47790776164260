package vision

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexable/smartcookly/backend/internal/fridge"
	"github.com/nexable/smartcookly/backend/internal/llm"
)

var today = civil.Date{Year: 2024, Month: time.May, Day: 20}

func TestParseDetectedItemsHappyPath(t *testing.T) {
	content := "Here you go:\n```json\n" + `[
	  {"name": "Spinach", "category": "VEGETABLES", "estimated_days_until_expiration": 5},
	  {"name": "Whole Milk", "category": "dairy", "estimated_days_until_expiration": "3"},
	  {"name": "Ketchup", "category": "Condiments", "estimated_days_until_expiration": null}
	]` + "\n```"

	res := ParseDetectedItems(content, today)
	require.True(t, res.OK())
	require.Len(t, res.Items, 3)
	assert.Zero(t, res.Dropped)

	assert.Equal(t, "Spinach", res.Items[0].Name)
	assert.Equal(t, fridge.Vegetables, res.Items[0].Category)
	assert.Equal(t, today.AddDays(5), *res.Items[0].ExpirationDate)

	assert.Equal(t, fridge.Dairy, res.Items[1].Category)
	assert.Equal(t, today.AddDays(3), *res.Items[1].ExpirationDate)

	assert.Equal(t, fridge.SaucesCondiments, res.Items[2].Category)
	assert.Nil(t, res.Items[2].ExpirationDate)
}

func TestParseDetectedItemsDropsNamelessEntries(t *testing.T) {
	content := `[{"category":"FRUITS"}, {"name":""}, {"name":"  "}, "apple", 42, {"name":"Pear"}]`

	res := ParseDetectedItems(content, today)
	require.True(t, res.OK())
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Pear", res.Items[0].Name)
	assert.Equal(t, fridge.Other, res.Items[0].Category)
	assert.Equal(t, 5, res.Dropped)
}

func TestParseDetectedItemsUnparseable(t *testing.T) {
	for name, content := range map[string]string{
		"prose":      "I could not see any food in this image.",
		"broken":     `[{"name": "Milk",]`,
		"reversed":   `] nothing [`,
		"empty text": "",
	} {
		t.Run(name, func(t *testing.T) {
			res := ParseDetectedItems(content, today)
			assert.False(t, res.OK())
			assert.NotEmpty(t, res.Reason)
			assert.NotNil(t, res.Items)
			assert.Empty(t, res.Items)
		})
	}
}

func TestParseDetectedItemsEmptyArrayIsOK(t *testing.T) {
	res := ParseDetectedItems("[]", today)
	assert.True(t, res.OK())
	assert.Empty(t, res.Items)
}

func TestParseDetectedItemsAllMalformed(t *testing.T) {
	res := ParseDetectedItems(`[{"category":"DAIRY"}]`, today)
	assert.False(t, res.OK())
	assert.Equal(t, 1, res.Dropped)
}

func TestParseDetectedItemsExpirationDateFallback(t *testing.T) {
	res := ParseDetectedItems(`[{"name":"Cheese","expiration_date":"2024-06-01"},{"name":"Ham","expiration_date":"soon"}]`, today)
	require.Len(t, res.Items, 2)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.June, Day: 1}, *res.Items[0].ExpirationDate)
	assert.Nil(t, res.Items[1].ExpirationDate)
}

func TestLenientInt(t *testing.T) {
	v, ok := LenientInt([]byte(`7`))
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = LenientInt([]byte(`"4"`))
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	v, ok = LenientInt([]byte(`2.9`))
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = LenientInt([]byte(`"a week"`))
	assert.False(t, ok)
	_, ok = LenientInt([]byte(`null`))
	assert.False(t, ok)
	_, ok = LenientInt(nil)
	assert.False(t, ok)

	for _, huge := range []string{`1e300`, `-1e19`, `1e12`, `"9999999999"`} {
		_, ok = LenientInt([]byte(huge))
		assert.False(t, ok, huge)
	}
}

func TestParseDetectedItemsOutOfRangeDaysMeanNoDate(t *testing.T) {
	content := `[
		{"name":"A","estimated_days_until_expiration":1e300},
		{"name":"B","estimated_days_until_expiration":-1e19},
		{"name":"C","estimated_days_until_expiration":1e12},
		{"name":"D","estimated_days_until_expiration":40000},
		{"name":"E","estimated_days_until_expiration":1e12,"expiration_date":"2024-06-04"},
		{"name":"F","expiration_date":"9999-12-31"}
	]`
	res := ParseDetectedItems(content, today)
	require.True(t, res.OK())
	require.Len(t, res.Items, 6)
	for _, item := range res.Items[:4] {
		assert.Nil(t, item.ExpirationDate, item.Name)
	}
	require.NotNil(t, res.Items[4].ExpirationDate)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.June, Day: 4}, *res.Items[4].ExpirationDate)
	assert.Nil(t, res.Items[5].ExpirationDate)
}

type stubVision struct {
	reply string
	err   error
	got   llm.Prompt
}

func (s *stubVision) GenerateContent(ctx context.Context, p llm.Prompt) (string, error) {
	return s.reply, s.err
}

func (s *stubVision) DescribeImage(ctx context.Context, p llm.Prompt, img llm.Image) (string, error) {
	s.got = p
	return s.reply, s.err
}

func (s *stubVision) Close() error { return nil }

func TestDetectorParsesModelReply(t *testing.T) {
	model := &stubVision{reply: `[{"name":"Eggs","category":"PROTEINS","estimated_days_until_expiration":14}]`}
	res, err := NewDetector(model).Detect(context.Background(), llm.Image{Data: []byte("jpg")}, today)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, today.AddDays(14), *res.Items[0].ExpirationDate)
	assert.Equal(t, detectionMaxTokens, model.got.MaxTokens)
	assert.NotEmpty(t, model.got.System)
}

func TestDetectorMalformedReplyIsNotAnError(t *testing.T) {
	model := &stubVision{reply: "sorry, blurry photo"}
	res, err := NewDetector(model).Detect(context.Background(), llm.Image{Data: []byte("jpg")}, today)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Empty(t, res.Items)
}

func TestDetectorPropagatesTransportError(t *testing.T) {
	model := &stubVision{err: errors.New("connection reset")}
	_, err := NewDetector(model).Detect(context.Background(), llm.Image{Data: []byte("jpg")}, today)
	assert.Error(t, err)
}
