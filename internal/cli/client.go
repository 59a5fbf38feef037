package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// JobResponse — scheduled job из API.
type JobResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	ReportType        string     `json:"report_type"`
	Frequency         string     `json:"frequency"`
	TimeOfDay         string     `json:"time_of_day"`
	DayOfWeek         *int       `json:"day_of_week,omitempty"`
	DayOfMonth        *int       `json:"day_of_month,omitempty"`
	IsActive          bool       `json:"is_active"`
	Filters           JobFilters `json:"filters"`
	Format            string     `json:"format"`
	SendToFixedEmails bool       `json:"send_to_fixed_emails"`
	LastRun           string     `json:"last_run,omitempty"`
	NextRun           string     `json:"next_run,omitempty"`
	CreatedAt         string     `json:"created_at"`
	UpdatedAt         string     `json:"updated_at"`
}

// JobFilters — фильтры выборки, сохранённые в job.
type JobFilters struct {
	Limit     int    `json:"limit,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// EmailResponse — фиксированный получатель из API.
type EmailResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	ReportType string `json:"report_type"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ExecutionResponse — выполнение отчёта из API.
type ExecutionResponse struct {
	ID               string   `json:"id"`
	ReportID         string   `json:"report_id,omitempty"`
	Status           string   `json:"status"`
	RecordsProcessed int      `json:"records_processed"`
	EmailsSentTo     []string `json:"emails_sent_to,omitempty"`
	ErrorMessage     string   `json:"error_message,omitempty"`
	ExecutedByID     string   `json:"executed_by_id,omitempty"`
	ExecutedAt       string   `json:"executed_at"`
	CompletedAt      string   `json:"completed_at,omitempty"`
	DurationMs       *int64   `json:"duration_ms,omitempty"`
}

// GenerateResult — итог генерации и рассылки.
type GenerateResult struct {
	ExecutionID  string   `json:"execution_id"`
	TotalRecords int      `json:"total_records"`
	SentTo       []string `json:"sent_to"`
	GeneratedAt  string   `json:"generated_at"`
	DurationMs   int64    `json:"duration_ms"`
}

// PreviewRow — строка отчёта в preview.
type PreviewRow struct {
	Number             int64  `json:"number"`
	Title              string `json:"title"`
	Status             string `json:"status"`
	ResponsibleName    string `json:"responsible_name,omitempty"`
	Deadline           string `json:"deadline,omitempty"`
	CreatedDate        string `json:"created_date"`
	OccurrenceTypeName string `json:"occurrence_type_name,omitempty"`
	TagName            string `json:"tag_name,omitempty"`
	ContactName        string `json:"contact_name,omitempty"`
	SalesOrderCode     string `json:"sales_order_code,omitempty"`
}

// PreviewResult — страница preview.
type PreviewResult struct {
	Data       []PreviewRow `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		Size       int `json:"size"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
	GeneratedAt string `json:"generated_at"`
}

// MetricStat — метрика дашборда с трендом.
type MetricStat struct {
	Value         int64 `json:"value"`
	PreviousValue int64 `json:"previous_value"`
	TrendPercent  int   `json:"trend_percent"`
}

// DashboardStats — сводка метрик за период.
type DashboardStats struct {
	Period             string     `json:"period"`
	ReportsGenerated   MetricStat `json:"reports_generated"`
	EmailsSent         MetricStat `json:"emails_sent"`
	OccurrencesFetched MetricStat `json:"occurrences_fetched"`
}

// ServiceStatus — состояние одного сервиса.
type ServiceStatus struct {
	Service   string `json:"service"`
	Status    string `json:"status"`
	LatencyMs *int64 `json:"latency_ms,omitempty"`
	Message   string `json:"message,omitempty"`
	CheckedAt string `json:"checked_at,omitempty"`
}

// SystemStatus — состояние всех отслеживаемых сервисов.
type SystemStatus struct {
	Services []ServiceStatus `json:"services"`
}

// --- Request types ---

// GenerateReportRequest — генерация и рассылка отчёта.
type GenerateReportRequest struct {
	DestinationEmail string `json:"destination_email,omitempty"`
	Format           string `json:"format,omitempty"`
	UseFixedEmails   bool   `json:"use_fixed_emails,omitempty"`
	Status           string `json:"status,omitempty"`
	Limit            int    `json:"limit,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
}

// CreateJobRequest — создание scheduled job.
type CreateJobRequest struct {
	Name              string      `json:"name"`
	Frequency         string      `json:"frequency"`
	TimeOfDay         string      `json:"time_of_day"`
	DayOfWeek         *int        `json:"day_of_week,omitempty"`
	DayOfMonth        *int        `json:"day_of_month,omitempty"`
	Format            string      `json:"format,omitempty"`
	Filters           *JobFilters `json:"filters,omitempty"`
	SendToFixedEmails *bool       `json:"send_to_fixed_emails,omitempty"`
	IsActive          *bool       `json:"is_active,omitempty"`
}

// UpdateJobRequest — обновление job.
type UpdateJobRequest struct {
	Name       *string     `json:"name,omitempty"`
	Frequency  *string     `json:"frequency,omitempty"`
	TimeOfDay  *string     `json:"time_of_day,omitempty"`
	DayOfWeek  *int        `json:"day_of_week,omitempty"`
	DayOfMonth *int        `json:"day_of_month,omitempty"`
	Format     *string     `json:"format,omitempty"`
	Filters    *JobFilters `json:"filters,omitempty"`
}

// CreateEmailRequest — добавление фиксированного получателя.
type CreateEmailRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	ReportType string `json:"report_type,omitempty"`
}

// UpdateEmailRequest — обновление получателя.
type UpdateEmailRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

// PreviewOpts — параметры preview.
type PreviewOpts struct {
	Page      int
	Size      int
	Status    string
	StartDate string
	EndDate   string
}

// ListExecutionsOpts — параметры фильтрации выполнений.
type ListExecutionsOpts struct {
	ReportID string
	Limit    int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Reporta API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Генерация с рассылкой ходит во внешний трекер и SMTP.
			Timeout: 5 * time.Minute,
		},
	}
}

// --- Report ---

// GenerateReport запускает генерацию и рассылку отчёта.
func (c *Client) GenerateReport(req GenerateReportRequest) (*GenerateResult, error) {
	var result GenerateResult
	err := c.post("/api/v1/report/generate-and-send", req, &result)
	return &result, err
}

// PreviewReport возвращает страницу отчёта без рассылки.
func (c *Client) PreviewReport(opts PreviewOpts) (*PreviewResult, error) {
	params := url.Values{}
	if opts.Page > 0 {
		params.Set("page", fmt.Sprintf("%d", opts.Page))
	}
	if opts.Size > 0 {
		params.Set("size", fmt.Sprintf("%d", opts.Size))
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.StartDate != "" {
		params.Set("start_date", opts.StartDate)
	}
	if opts.EndDate != "" {
		params.Set("end_date", opts.EndDate)
	}

	path := "/api/v1/report/preview"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var result PreviewResult
	err := c.get(path, &result)
	return &result, err
}

// DownloadReport скачивает файл отчёта. Возвращает содержимое и имя файла
// из Content-Disposition.
func (c *Client) DownloadReport(format string, opts PreviewOpts) ([]byte, string, error) {
	params := url.Values{}
	if format != "" {
		params.Set("format", format)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.StartDate != "" {
		params.Set("start_date", opts.StartDate)
	}
	if opts.EndDate != "" {
		params.Set("end_date", opts.EndDate)
	}

	resp, err := c.do(http.MethodGet, "/api/v1/report/download?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	filename := "report"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := params["filename"]; name != "" {
			filename = name
		}
	}

	return data, filename, nil
}

// ListExecutions возвращает историю выполнений.
func (c *Client) ListExecutions(opts ListExecutionsOpts) ([]ExecutionResponse, error) {
	params := url.Values{}
	if opts.ReportID != "" {
		params.Set("report_id", opts.ReportID)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var executions []ExecutionResponse
	err := c.list("/api/v1/report/executions", params, &executions)
	return executions, err
}

// GetExecution возвращает выполнение по ID.
func (c *Client) GetExecution(id string) (*ExecutionResponse, error) {
	var execution ExecutionResponse
	err := c.get("/api/v1/report/executions/"+id, &execution)
	return &execution, err
}

// --- Jobs ---

// ListJobs возвращает все scheduled jobs.
func (c *Client) ListJobs() ([]JobResponse, error) {
	var jobs []JobResponse
	err := c.list("/api/v1/jobs", nil, &jobs)
	return jobs, err
}

// CreateJob создаёт scheduled job.
func (c *Client) CreateJob(req CreateJobRequest) (*JobResponse, error) {
	var job JobResponse
	err := c.post("/api/v1/jobs", req, &job)
	return &job, err
}

// GetJob возвращает job по ID.
func (c *Client) GetJob(id string) (*JobResponse, error) {
	var job JobResponse
	err := c.get("/api/v1/jobs/"+id, &job)
	return &job, err
}

// UpdateJob обновляет job.
func (c *Client) UpdateJob(id string, req UpdateJobRequest) (*JobResponse, error) {
	var job JobResponse
	err := c.put("/api/v1/jobs/"+id, req, &job)
	return &job, err
}

// DeleteJob удаляет job.
func (c *Client) DeleteJob(id string) error {
	return c.delete("/api/v1/jobs/" + id)
}

// SetJobActive включает или выключает job.
func (c *Client) SetJobActive(id string, active bool) (*JobResponse, error) {
	var job JobResponse
	body := map[string]bool{"is_active": active}
	err := c.put("/api/v1/jobs/"+id+"/active", body, &job)
	return &job, err
}

// --- Emails ---

// ListEmails возвращает фиксированных получателей.
func (c *Client) ListEmails(activeOnly bool) ([]EmailResponse, error) {
	path := "/api/v1/emails"
	if activeOnly {
		path = "/api/v1/emails/active"
	}

	var emails []EmailResponse
	err := c.list(path, nil, &emails)
	return emails, err
}

// CreateEmail добавляет получателя.
func (c *Client) CreateEmail(req CreateEmailRequest) (*EmailResponse, error) {
	var email EmailResponse
	err := c.post("/api/v1/emails", req, &email)
	return &email, err
}

// GetEmail возвращает получателя по ID.
func (c *Client) GetEmail(id string) (*EmailResponse, error) {
	var email EmailResponse
	err := c.get("/api/v1/emails/"+id, &email)
	return &email, err
}

// UpdateEmail обновляет получателя.
func (c *Client) UpdateEmail(id string, req UpdateEmailRequest) (*EmailResponse, error) {
	var email EmailResponse
	err := c.put("/api/v1/emails/"+id, req, &email)
	return &email, err
}

// DeleteEmail удаляет получателя.
func (c *Client) DeleteEmail(id string) error {
	return c.delete("/api/v1/emails/" + id)
}

// SetEmailActive включает или выключает получателя.
func (c *Client) SetEmailActive(id string, active bool) (*EmailResponse, error) {
	var email EmailResponse
	body := map[string]bool{"is_active": active}
	err := c.put("/api/v1/emails/"+id+"/active", body, &email)
	return &email, err
}

// --- Dashboard ---

// GetDashboardStats возвращает метрики текущего периода.
func (c *Client) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats
	err := c.get("/api/v1/dashboard/stats", &stats)
	return &stats, err
}

// GetSystemStatus возвращает состояние сервисов.
func (c *Client) GetSystemStatus() (*SystemStatus, error) {
	var status SystemStatus
	err := c.get("/api/v1/dashboard/status", &status)
	return &status, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
