package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFields_TableDriven(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain", line: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "trims fields", line: " a , b ,c ", want: []string{"a", "b", "c"}},
		{name: "quoted comma", line: `x,"Buenos Aires, Argentina",y`, want: []string{"x", "Buenos Aires, Argentina", "y"}},
		{name: "doubled quote", line: `"a""b",c`, want: []string{`a"b`, "c"}},
		{name: "empty quoted", line: `"",x`, want: []string{"", "x"}},
		{name: "trailing empty", line: "a,b,", want: []string{"a", "b", ""}},
		{name: "geojson blob", line: `1,"{""type"":""Point"",""coordinates"":[-58.1,-34.6]}",2`, want: []string{"1", `{"type":"Point","coordinates":[-58.1,-34.6]}`, "2"}},
		{name: "unbalanced quote absorbs rest", line: `a,"b,c,d`, want: []string{"a", "b,c,d"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitFields(tc.line))
		})
	}
}

func TestParse_VendorFilterAndOrder(t *testing.T) {
	text := strings.Join([]string{
		"empresa,fecha_chequeo,precio",
		"UNITECPROCOM SA,2025-01-03,1100",
		"OTRA SRL,2025-01-02,999",
		"",
		"UNITECPROCOM SA (YPF),2025-01-01,1000",
		"   ",
		"UNITECPROCOM SA,2025-01-04,1200",
	}, "\n")

	got := Parse(text, "UNITECPROCOM")
	require.Len(t, got, 3)
	assert.Equal(t, "2025-01-03", got[0]["fecha_chequeo"])
	assert.Equal(t, "UNITECPROCOM SA (YPF)", got[1]["empresa"])
	assert.Equal(t, "1200", got[2]["precio"])
	for _, r := range got {
		assert.Contains(t, r["empresa"], "UNITECPROCOM")
	}
}

func TestParse_EdgeCases(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{name: "empty input", text: "", want: 0},
		{name: "whitespace only", text: " \n\n \t", want: 0},
		{name: "header only", text: "empresa,fecha_chequeo,precio\n", want: 0},
		{name: "short row dropped", text: "empresa,fecha_chequeo,precio\nUNITECPROCOM SA,2025-01-01\n", want: 0},
		{name: "extra fields tolerated", text: "empresa,precio\nUNITECPROCOM SA,10,extra\n", want: 1},
		{name: "missing vendor column", text: "nombre,precio\nUNITECPROCOM SA,10\n", want: 0},
		{name: "crlf line endings", text: "empresa,precio\r\nUNITECPROCOM SA,10\r\n", want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, Parse(tc.text, "UNITECPROCOM"), tc.want)
		})
	}
}

func TestParse_EmptyFilterKeepsAll(t *testing.T) {
	text := "empresa,precio\nUNITECPROCOM SA,10\n,11\nOTRA SRL,12\n"
	assert.Len(t, Parse(text, ""), 3)
	assert.Len(t, Parse(text, "SRL"), 1)
}

func TestParse_QuotedValues(t *testing.T) {
	text := "empresa,localidad,precio,geo\n" +
		`"UNITECPROCOM SA","Buenos Aires, Argentina", "1500" ,"a""b"` + "\n"

	got := Parse(text, "UNITECPROCOM")
	require.Len(t, got, 1)
	assert.Equal(t, "UNITECPROCOM SA", got[0]["empresa"])
	assert.Equal(t, "Buenos Aires, Argentina", got[0]["localidad"])
	assert.Equal(t, "1500", got[0]["precio"])
	assert.Equal(t, `a"b`, got[0]["geo"])
}

func TestParse_QuotedHeader(t *testing.T) {
	text := `"empresa", "precio"` + "\nUNITECPROCOM SA,10\n"
	got := Parse(text, "UNITECPROCOM")
	require.Len(t, got, 1)
	assert.Equal(t, "10", got[0]["precio"])
}

func TestParseWithColumn_CustomVendorColumn(t *testing.T) {
	text := "operador,precio\nACME,1\nOTHER,2\n"
	got := ParseWithColumn(text, "operador", "ACME")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0]["precio"])
}

func TestCleanValue(t *testing.T) {
	assert.Equal(t, "x", cleanValue(` "x" `))
	assert.Equal(t, `"x`, cleanValue(`"x`))
	assert.Equal(t, "", cleanValue(`""`))
}
