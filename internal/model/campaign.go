// internal/model/campaign.go
package model

import "time"

type Campaign struct {
    ID        int        `db:"id" json:"id"`
    OwnerID   int        `db:"owner_id" json:"owner_id"`
    Name      string     `db:"name" json:"name"`
    Status    string     `db:"status" json:"status"`
    CreatedAt time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
