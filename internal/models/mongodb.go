package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB wraps the storefront collections. Admin membership is the existence
// of a document keyed by the user id in Admins.
type MongoDB struct {
	Products        *mongo.Collection
	Orders          *mongo.Collection
	OrderDetails    *mongo.Collection
	Users           *mongo.Collection
	UserProfiles    *mongo.Collection
	Admins          *mongo.Collection
	ContactMessages *mongo.Collection
}

func NewMongoDB(db *mongo.Database) *MongoDB {
	return &MongoDB{
		Products:        db.Collection("products"),
		Orders:          db.Collection("orders"),
		OrderDetails:    db.Collection("orderDetails"),
		Users:           db.Collection("users"),
		UserProfiles:    db.Collection("userProfiles"),
		Admins:          db.Collection("admins"),
		ContactMessages: db.Collection("contactMessages"),
	}
}

// --- PRODUCTS ---

func (m *MongoDB) InsertProduct(ctx context.Context, p *Product) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	_, err := m.Products.InsertOne(ctx, p)
	return p.ID, err
}

func (m *MongoDB) GetProduct(ctx context.Context, id string) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoRecord
	}
	var p Product
	err = m.Products.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoRecord
	}
	return &p, err
}

func (m *MongoDB) GetAllProducts(ctx context.Context) ([]*Product, error) {
	return m.findProducts(ctx, bson.M{})
}

func (m *MongoDB) GetProductsByCategory(ctx context.Context, category string) ([]*Product, error) {
	return m.findProducts(ctx, bson.M{"category": category})
}

func (m *MongoDB) findProducts(ctx context.Context, filter bson.M) ([]*Product, error) {
	var products []*Product
	cur, err := m.Products.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &products)
	return products, err
}

func (m *MongoDB) UpdateProduct(ctx context.Context, p *Product) error {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"stock":       p.Stock,
		"image":       p.Image,
		"updated_at":  time.Now(),
	}}
	res, err := m.Products.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func (m *MongoDB) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoRecord
	}
	res, err := m.Products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// --- ORDERS ---

// CreateOrder persists the order snapshot with status pending. Stock is not
// touched here: fulfillment is manual and stock is adjusted by the admin.
func (m *MongoDB) CreateOrder(ctx context.Context, o *Order) (primitive.ObjectID, error) {
	o.ID = primitive.NewObjectID()
	o.Status = StatusPending
	o.CreatedAt = time.Now()
	_, err := m.Orders.InsertOne(ctx, o)
	return o.ID, err
}

func (m *MongoDB) InsertOrderDetail(ctx context.Context, d *OrderDetail) error {
	_, err := m.OrderDetails.InsertOne(ctx, d)
	return err
}

func (m *MongoDB) GetOrder(ctx context.Context, id string) (*Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoRecord
	}
	var o Order
	err = m.Orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoRecord
	}
	return &o, err
}

func (m *MongoDB) GetOrderDetail(ctx context.Context, id string) (*OrderDetail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoRecord
	}
	var d OrderDetail
	err = m.OrderDetails.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoRecord
	}
	return &d, err
}

func (m *MongoDB) GetOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]*Order, error) {
	return m.findOrders(ctx, bson.M{"user_id": userID})
}

func (m *MongoDB) GetAllOrders(ctx context.Context) ([]*Order, error) {
	return m.findOrders(ctx, bson.M{})
}

func (m *MongoDB) findOrders(ctx context.Context, filter bson.M) ([]*Order, error) {
	var orders []*Order
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := m.Orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &orders)
	return orders, err
}

// UpdateOrderStatus advances an order and returns it with the new status and
// tracking applied. Backward moves fail with ErrInvalidTransition; completing
// without tracking fails with ErrTrackingRequired and nothing is written.
func (m *MongoDB) UpdateOrderStatus(ctx context.Context, id string, next OrderStatus, tracking *TrackingInfo) (*Order, error) {
	o, err := m.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	tracking, err = applyTransition(o.Status, next, tracking)
	if err != nil {
		return nil, err
	}

	set := bson.M{"status": next}
	if tracking != nil {
		set["tracking_info"] = tracking
	}
	_, err = m.Orders.UpdateOne(ctx, bson.M{"_id": o.ID}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}

	o.Status = next
	if tracking != nil {
		o.Tracking = tracking
	}
	return o, nil
}

// --- PROFILES & CONTACT ---

func (m *MongoDB) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*UserProfile, error) {
	var p UserProfile
	err := m.UserProfiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoRecord
	}
	return &p, err
}

func (m *MongoDB) UpsertUserProfile(ctx context.Context, p *UserProfile) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.UserProfiles.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts)
	return err
}

func (m *MongoDB) GetAllUserProfiles(ctx context.Context) ([]*UserProfile, error) {
	var profiles []*UserProfile
	cur, err := m.UserProfiles.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &profiles)
	return profiles, err
}

func (m *MongoDB) InsertContactMessage(ctx context.Context, c *ContactMessage) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	_, err := m.ContactMessages.InsertOne(ctx, c)
	return err
}

// IsAdmin checks for a document keyed by the user id in the admins
// collection.
func (m *MongoDB) IsAdmin(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	err := m.Admins.FindOne(ctx, bson.M{"_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
