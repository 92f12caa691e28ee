// Package domain 定義彩票產品的客戶端數據模型。
// 所有資料的權威來源都在後端，這裡的結構只是顯示用快照。
package domain

// 產品規則常量
const (
	// TicketPrice 每張彩票的固定價格（貨幣單位）
	TicketPrice = 100

	// MinTopUpAmount 最低充值金額
	MinTopUpAmount = 100

	// MinWithdrawAmount 最低提款金額
	MinWithdrawAmount = 100

	// MaxSelectable 每張彩票必須選滿的號碼數量
	MaxSelectable = 5

	// NumberMin, NumberMax 可選號碼的取值範圍
	NumberMin = 1
	NumberMax = 30
)

// UserRole 用戶角色
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User 用戶資料與錢包餘額快照
type User struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           UserRole `json:"role"`
	ReferralCode   string   `json:"referral_code"`
	WalletBalance  float64  `json:"wallet_balance"`
	TotalReferrals int      `json:"total_referrals"`
	CreatedAt      string   `json:"created_at"`
}

// CanAfford 判斷錢包餘額是否足以支付指定金額
func (u *User) CanAfford(amount float64) bool {
	return u.WalletBalance >= amount
}

// AuthResponse 登入/註冊的響應
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// DrawType 開獎週期類型
type DrawType string

const (
	DrawDaily   DrawType = "daily"
	DrawWeekly  DrawType = "weekly"
	DrawMonthly DrawType = "monthly"
)

// DrawStatus 開獎狀態
type DrawStatus string

const (
	DrawStatusActive    DrawStatus = "active"
	DrawStatusCompleted DrawStatus = "completed"
	DrawStatusPending   DrawStatus = "pending"
)

// Draw 一期開獎
type Draw struct {
	ID                 string     `json:"id"`
	DrawType           DrawType   `json:"draw_type"`
	StartTime          string     `json:"start_time"`
	EndTime            string     `json:"end_time"`
	TotalPot           float64    `json:"total_pot"`
	TotalTickets       int        `json:"total_tickets"`
	Status             DrawStatus `json:"status"`
	WinningNumbers     []int      `json:"winning_numbers"`
	FirstPlaceWinner   *Winner    `json:"first_place_winner"`
	ConsolationWinners []Winner   `json:"consolation_winners"`
	PlatformEarnings   float64    `json:"platform_earnings"`
	CreatedAt          string     `json:"created_at"`
}

// IsActive 判斷本期是否仍可購票
func (d *Draw) IsActive() bool {
	return d.Status == DrawStatusActive
}

// IsCompleted 判斷本期是否已完成
func (d *Draw) IsCompleted() bool {
	return d.Status == DrawStatusCompleted
}

// HasResults 判斷開獎結果是否已公佈。
// winning_numbers 在 active 期間保持為空，completed 且公佈後恰為 5 個。
func (d *Draw) HasResults() bool {
	return d.IsCompleted() && len(d.WinningNumbers) > 0
}

// Winner 中獎者的展示投影（彩票 + 用戶的反規範化組合）
type Winner struct {
	UserID          string  `json:"user_id"`
	Name            string  `json:"name"`
	PrizeAmount     float64 `json:"prize_amount"`
	TicketID        string  `json:"ticket_id,omitempty"`
	MatchCount      int     `json:"match_count,omitempty"`
	SelectedNumbers []int   `json:"selected_numbers,omitempty"`
}

// TicketStatus 彩票狀態
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusCompleted TicketStatus = "completed"
)

// Ticket 一次購票記錄。selected_numbers 恆為 5 個互不相同的 [1,30] 整數；
// match_count 僅在 status=completed 後有意義。
type Ticket struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	DrawID          string       `json:"draw_id"`
	DrawType        DrawType     `json:"draw_type"`
	TicketPrice     float64      `json:"ticket_price"`
	SelectedNumbers []int        `json:"selected_numbers"`
	MatchCount      int          `json:"match_count"`
	PurchaseDate    string       `json:"purchase_date"`
	Status          TicketStatus `json:"status"`
	IsWinner        bool         `json:"is_winner"`
	PrizeAmount     *float64     `json:"prize_amount"`
	UserName        *string      `json:"user_name,omitempty"`
}

// TransactionType 錢包流水類型
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// TransactionStatus 錢包流水狀態。
// pending 可能由外部支付回調異步轉為 completed/failed，不在本倉庫範圍內。
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction 一筆錢包流水，創建後不可變
type Transaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	Type          TransactionType   `json:"type"`
	Amount        float64           `json:"amount"`
	Description   string            `json:"description"`
	Status        TransactionStatus `json:"status"`
	Date          string            `json:"date"`
	AccountName   *string           `json:"account_name"`
	BankName      *string           `json:"bank_name"`
	AccountNumber *string           `json:"account_number"`
}

// WalletDetails 餘額與流水列表，流水按倒序時間排列供展示
type WalletDetails struct {
	Balance      float64       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

// TopUpAuthorization 充值請求的響應，authorization_url 指向外部支付頁面
type TopUpAuthorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}
