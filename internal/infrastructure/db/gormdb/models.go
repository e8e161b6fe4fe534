package gormdb

import (
	"time"

	"gorm.io/gorm"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type userModel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Username     string `gorm:"size:255;uniqueIndex;not null"`
	Address      string
	Phone        string
	Gender       string
	Image        string
	Role         string `gorm:"size:16;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Username:     m.Username,
		Address:      m.Address,
		Phone:        m.Phone,
		Gender:       m.Gender,
		Image:        m.Image,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type categoryModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:255;uniqueIndex;not null"`
	CreatedAt time.Time
}

func (categoryModel) TableName() string { return "categories" }

func (m *categoryModel) toDomain() *domain.Category {
	return &domain.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
}

type productModel struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"size:255;uniqueIndex;not null"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"not null"`
	Stock       int     `gorm:"not null;default:0"`
	Image       string
	Categories  []categoryModel `gorm:"many2many:product_categories;joinForeignKey:ProductID;joinReferences:CategoryID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (productModel) TableName() string { return "products" }

func (m *productModel) toDomain() *domain.Product {
	names := make([]string, 0, len(m.Categories))
	for _, c := range m.Categories {
		names = append(names, c.Name)
	}
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		Image:       m.Image,
		Categories:  names,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type cartItemModel struct {
	ID        string  `gorm:"primaryKey;size:36"`
	UserID    uint    `gorm:"index;not null"`
	ProductID string  `gorm:"size:36;not null"`
	Qty       int     `gorm:"not null"`
	Price     float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (cartItemModel) TableName() string { return "cart_items" }

func (m *cartItemModel) toDomain() *domain.CartItem {
	return &domain.CartItem{
		ID:        m.ID,
		UserID:    m.UserID,
		ProductID: m.ProductID,
		Qty:       m.Qty,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type orderModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	UserID       uint   `gorm:"index;not null"`
	PaymentID    int
	DeliveryID   int
	Status       string `gorm:"size:16;not null"`
	Subtotal     float64
	Tax          float64
	ShippingCost float64
	GrandTotal   float64
	Items        []orderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (orderModel) TableName() string { return "orders" }

func (m *orderModel) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, domain.OrderItem{ProductID: it.ProductID, Name: it.Name, Qty: it.Qty})
	}
	return &domain.Order{
		ID:           m.ID,
		UserID:       m.UserID,
		PaymentID:    m.PaymentID,
		DeliveryID:   m.DeliveryID,
		Status:       domain.OrderStatus(m.Status),
		Subtotal:     m.Subtotal,
		Tax:          m.Tax,
		ShippingCost: m.ShippingCost,
		GrandTotal:   m.GrandTotal,
		Items:        items,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// orderItemModel keeps the product name as it was when the order was placed.
type orderItemModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"size:36;index;not null"`
	ProductID string `gorm:"size:36;not null"`
	Name      string
	Qty       int `gorm:"not null"`
}

func (orderItemModel) TableName() string { return "order_items" }
