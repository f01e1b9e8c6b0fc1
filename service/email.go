package service

import (
	"fmt"
	"html"
	"io"
	"strings"

	"budget/analytics"
	"budget/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Attachment 邮件附件
type Attachment struct {
	Filename string
	Data     []byte
}

// SendInsightsReport 发送预算分析报告邮件，report 为可选的 Excel 附件
func (s *EmailService) SendInsightsReport(toEmail, username string, insights *analytics.BudgetInsights, report *Attachment) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 BUDGET_EMAIL_ENABLED=true")
	}

	subject := fmt.Sprintf("【预算助手】预算分析报告 %s ~ %s", insights.StartDate, insights.EndDate)
	body := s.generateInsightsEmailBody(username, insights)

	return s.sendEmail(toEmail, subject, body, report)
}

// generateInsightsEmailBody 生成分析报告邮件内容
func (s *EmailService) generateInsightsEmailBody(username string, insights *analytics.BudgetInsights) string {
	var rows strings.Builder
	for _, c := range insights.CategoryBreakdown {
		status := "正常"
		color := "#10b981"
		if c.OverBudget {
			status = fmt.Sprintf("超支 %.2f", c.OverageAmount)
			color = "#ef4444"
		}
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%.2f</td><td>%.2f</td><td>%.2f%%</td><td style="color: %s;">%s</td></tr>`,
			html.EscapeString(c.Category), c.Amount, c.Limit, c.Progress, color, status)
	}

	var tips strings.Builder
	for _, sg := range insights.Suggestions {
		fmt.Fprintf(&tips, `<li class="%s">%s</li>`, sg.Type, html.EscapeString(sg.Message))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 640px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 16px; }
        .score { font-size: 36px; font-weight: bold; color: #1d4ed8; }
        table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        th, td { border: 1px solid #e5e7eb; padding: 8px; text-align: left; font-size: 14px; }
        th { background: #4F81BD; color: #fff; }
        li.warning { color: #b45309; }
        li.alert { color: #b91c1c; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 预算分析报告</h1>
            <p>%s ~ %s</p>
        </div>
        <div class="content">
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>财务健康分：<span class="score">%.2f</span>（%s）</p>
            <p>月收入：%.2f　总支出：%.2f　剩余预算：%.2f　建议储蓄：%.2f</p>
            <table>
                <tr><th>类别</th><th>支出</th><th>预算</th><th>进度</th><th>状态</th></tr>
                %s
            </table>
            <p>建议：</p>
            <ul>%s</ul>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`, insights.StartDate, insights.EndDate, html.EscapeString(username),
		insights.HealthScore, insights.HealthLabel,
		insights.MonthlyIncome, insights.TotalExpenses, insights.RemainingBudget, insights.SuggestedSavings,
		rows.String(), tips.String())
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string, attachment *Attachment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if attachment != nil {
		data := attachment.Data
		m.Attach(attachment.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
