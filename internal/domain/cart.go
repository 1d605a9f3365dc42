package domain

import "time"

type Cart struct {
	ID        string     `json:"-" bson:"_id,omitempty"`
	UserID    string     `json:"-" bson:"user_id"`
	Lines     []CartLine `json:"lines" bson:"lines"`
	CreatedAt time.Time  `json:"-" bson:"created_at"`
	UpdatedAt time.Time  `json:"-" bson:"updated_at"`
}

type CartLine struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// AddProduct increments the quantity of an existing line by one, or appends
// a new line with quantity 1. At most one line exists per product id.
func (c *Cart) AddProduct(p Product) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{Product: p, Quantity: 1})
}

// Decrement lowers a line's quantity by one, removing the line when it
// would reach zero. Unknown product ids are a silent no-op.
func (c *Cart) Decrement(productID string) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID != productID {
			continue
		}
		if c.Lines[i].Quantity <= 1 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity--
		}
		return
	}
}

// Remove deletes the line unconditionally. Unknown product ids are a no-op.
func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Line(productID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return total
}

func (c *Cart) ItemCount() int {
	var count int
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
