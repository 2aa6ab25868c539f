package fileio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/seller-console/internal/entity"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// ============ IMPORTAÇÃO CSV ============

// TestParseLeadsCSVHappyPath - linha válida vira lead novo
func TestParseLeadsCSVHappyPath(t *testing.T) {
	content := "name,company,email,source,score,status\n" +
		"John Doe,Acme Corp,john@acme.com,website,85,new\n"

	res := ParseLeads("leads.csv", []byte(content), now)

	require.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.ImportedCount)
	require.Len(t, res.Data, 1)

	l := res.Data[0]
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "John Doe", l.Name)
	assert.Equal(t, "Acme Corp", l.Company)
	assert.Equal(t, "john@acme.com", l.Email)
	assert.Equal(t, "website", l.Source)
	assert.Equal(t, 85, l.Score)
	assert.Equal(t, entity.LeadStatusNew, l.Status)
	assert.Equal(t, now, l.CreatedAt)
}

// TestParseLeadsCSVHeaderCaseAndOrder - cabeçalho em qualquer ordem e caixa
func TestParseLeadsCSVHeaderCaseAndOrder(t *testing.T) {
	content := "Status, Score ,EMAIL,Company,Name,Source,Notes\n" +
		"qualified,70,ana@x.io,Initech,Ana,referral,vip\n"

	res := ParseLeads("LEADS.CSV", []byte(content), now)

	require.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Ana", res.Data[0].Name)
	assert.Equal(t, entity.LeadStatusQualified, res.Data[0].Status)
	assert.Equal(t, 70, res.Data[0].Score)
}

// TestParseLeadsCSVRowErrors - linhas ruins são reportadas e as boas importadas
func TestParseLeadsCSVRowErrors(t *testing.T) {
	content := strings.Join([]string{
		"name,company,email,source,score,status",
		"Good,Acme,g@acme.com,web,50,new",
		"Short,Acme",
		",Acme,x@acme.com,web,50,new",
		"Bad Score,Acme,b@acme.com,web,101,new",
		"NaN Score,Acme,n@acme.com,web,abc,new",
		"Bad Status,Acme,s@acme.com,web,10,archived",
		"Blank Status,Acme,bs@acme.com,web,10,",
	}, "\n")

	res := ParseLeads("leads.csv", []byte(content), now)

	require.True(t, res.Success)
	assert.Equal(t, 2, res.ImportedCount)
	assert.Equal(t, entity.LeadStatusNew, res.Data[1].Status)
	assert.Equal(t, []string{
		"Row 3: Column count mismatch",
		"Row 4: Missing required fields",
		"Row 5: Invalid score value",
		"Row 6: Invalid score value",
		"Row 7: Invalid status value",
	}, res.Errors)
}

// TestParseLeadsCSVTopLevelErrors - arquivo inteiro rejeitado
func TestParseLeadsCSVTopLevelErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"apenas cabeçalho", "name,company,email,source,score,status\n", "CSV file must contain at least a header row and one data row"},
		{"vazio", "   ", "CSV file must contain at least a header row and one data row"},
		{"colunas faltando", "name,email,score\nA,a@b.c,1\n", "Missing required fields: company, source, status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseLeads("x.csv", []byte(tt.content), now)
			assert.False(t, res.Success)
			assert.Equal(t, []string{tt.want}, res.Errors)
			assert.Empty(t, res.Data)
			assert.Zero(t, res.ImportedCount)
		})
	}
}

// ============ IMPORTAÇÃO JSON ============

// TestParseLeadsJSONDefaults - campos opcionais recebem padrões
func TestParseLeadsJSONDefaults(t *testing.T) {
	content := `[{"id":"keep-me-not","name":"Jane","company":"Globex","email":"jane@globex.com"}]`

	res := ParseLeads("leads.json", []byte(content), now)

	require.True(t, res.Success)
	require.Len(t, res.Data, 1)
	l := res.Data[0]
	assert.NotEqual(t, "keep-me-not", l.ID)
	assert.Equal(t, "Unknown", l.Source)
	assert.Equal(t, 0, l.Score)
	assert.Equal(t, entity.LeadStatusNew, l.Status)
	assert.Equal(t, now, l.CreatedAt)
	assert.Equal(t, now, l.UpdatedAt)
}

// TestParseLeadsJSONKeepsDates - datas presentes são preservadas
func TestParseLeadsJSONKeepsDates(t *testing.T) {
	content := `[{"name":"Jane","company":"Globex","email":"j@g.com","score":77,"status":"contacted","createdAt":"2023-05-01T10:00:00Z"}]`

	res := ParseLeads("leads.json", []byte(content), now)

	require.True(t, res.Success)
	assert.Equal(t, time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC), res.Data[0].CreatedAt)
	assert.Equal(t, 77, res.Data[0].Score)
	assert.Equal(t, entity.LeadStatusContacted, res.Data[0].Status)
}

// TestParseLeadsJSONErrors - qualquer item inválido rejeita o arquivo
func TestParseLeadsJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"objeto", `{"name":"x"}`, "Invalid JSON format: JSON file must contain an array of lead objects"},
		{"sem email", `[{"name":"a","company":"b","email":"c"},{"name":"a","company":"b"}]`, "Invalid JSON format: Item 2: Missing required fields"},
		{"score fora", `[{"name":"a","company":"b","email":"c","score":500}]`, "Invalid JSON format: Item 1: Invalid score value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseLeads("x.json", []byte(tt.content), now)
			assert.False(t, res.Success)
			assert.Equal(t, []string{tt.want}, res.Errors)
		})
	}

	res := ParseLeads("x.json", []byte(`[{"name":`), now)
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Errors[0], "Invalid JSON format: "))
}

// TestParseLeadsUnsupportedExtension - extensão desconhecida
func TestParseLeadsUnsupportedExtension(t *testing.T) {
	res := ParseLeads("leads.txt", []byte("anything"), now)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Unsupported file format. Please use CSV or JSON files."}, res.Errors)
}

// ============ EXPORTAÇÃO ============

func exportFixtures() ([]entity.Lead, []entity.Opportunity) {
	amount := 1500.5
	leads := []entity.Lead{{
		ID: "l1", Name: "John Doe", Company: "Acme, Inc", Email: "john@acme.com",
		Source: "website", Score: 85, Status: entity.LeadStatusNew, CreatedAt: now,
	}}
	opps := []entity.Opportunity{
		{ID: "o1", Name: "Deal", Stage: entity.StageProposal, Amount: &amount, AccountName: "Acme", LeadID: "l1", CreatedAt: now},
		{ID: "o2", Name: "Open", Stage: entity.StageProspecting, AccountName: "Globex", LeadID: "l2", CreatedAt: now},
	}
	return leads, opps
}

// TestExportLeadsCSV - cabeçalho fixo e campos com vírgula entre aspas
func TestExportLeadsCSV(t *testing.T) {
	leads, _ := exportFixtures()
	var buf bytes.Buffer
	require.NoError(t, ExportLeads(&buf, leads, FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"ID", "Name", "Company", "Email", "Source", "Score", "Status", "Created At"}, records[0])
	assert.Equal(t, []string{"l1", "John Doe", "Acme, Inc", "john@acme.com", "website", "85", "new", "2024-03-10T12:00:00Z"}, records[1])
}

// TestExportOpportunitiesCSV - valor ausente vira célula vazia
func TestExportOpportunitiesCSV(t *testing.T) {
	_, opps := exportFixtures()
	var buf bytes.Buffer
	require.NoError(t, ExportOpportunities(&buf, opps, FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Name", "Stage", "Amount", "Account Name", "Lead ID", "Created At"}, records[0])
	assert.Equal(t, "1500.5", records[1][3])
	assert.Equal(t, "", records[2][3])
}

// TestExportJSONRoundTrip - json indentado reimportável
func TestExportJSONRoundTrip(t *testing.T) {
	leads, _ := exportFixtures()
	var buf bytes.Buffer
	require.NoError(t, ExportLeads(&buf, leads, FormatJSON))
	assert.Contains(t, buf.String(), "\n  {")

	var back []entity.Lead
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, leads, back)

	res := ParseLeads("leads.json", buf.Bytes(), now)
	require.True(t, res.Success)
	assert.Equal(t, 1, res.ImportedCount)
}

// TestExportEmptyJSON - coleção vazia vira array vazio
func TestExportEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportOpportunities(&buf, nil, FormatJSON))
	assert.JSONEq(t, "[]", buf.String())
}

// TestExportXLSX - planilha com cabeçalho e uma linha por registro
func TestExportXLSX(t *testing.T) {
	_, opps := exportFixtures()
	var buf bytes.Buffer
	require.NoError(t, ExportOpportunities(&buf, opps, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Opportunities")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Account Name", rows[0][4])
	assert.Equal(t, "Deal", rows[1][1])
}

// TestParseFormat - formatos aceitos
func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "leads.csv", f.FileName("leads"))
	assert.Equal(t, "text/csv", f.ContentType())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
