package cli

import (
	"fmt"
	"text/tabwriter"
	"text/template"

	"github.com/iudanet/gophadmin/internal/client/view"
	"github.com/iudanet/gophadmin/internal/models"
)

var (
	memberTmpl = template.Must(template.New("member").Parse(memberTemplate))
	orderTmpl  = template.Must(template.New("order").Parse(orderTemplate))
)

func (c *Cli) printMember(m *models.Member) error {
	return memberTmpl.Execute(c.io, m)
}

func (c *Cli) printOrder(o *models.Order) error {
	return orderTmpl.Execute(c.io, o)
}

func yesNo(flag int) string {
	if flag != 0 {
		return "yes"
	}
	return "no"
}

// renderMembers печатает текущую страницу участников
func (c *Cli) renderMembers(state *view.State[models.Member]) error {
	items := state.PageItems()
	filtered := len(state.Filtered())

	c.io.Printf("=== %s ===\n\n", state.Title())
	if filtered == 0 {
		c.io.Println("No members found.")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME")
	for _, m := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", m.ID, m.Name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	c.io.Printf("\nPage %d/%d, total: %d members\n", state.Page, state.TotalPages(), filtered)
	return nil
}

// renderOrders печатает текущую страницу заказов
func (c *Cli) renderOrders(state *view.State[models.Order], withServer bool) error {
	items := state.PageItems()
	filtered := len(state.Filtered())

	c.io.Printf("=== %s ===\n\n", state.Title())
	if filtered == 0 {
		c.io.Println("No orders found.")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	header := "ORDER ID\tVER\tMEMBER\tCREATED\tEXPIRES\tPRICE\tPAID\tDELETED"
	if withServer {
		header += "\tSERVER"
	}
	_, _ = fmt.Fprintln(w, header)
	for _, o := range items {
		line := fmt.Sprintf("%s\t%d\t%s\t%s\t%s\t%d\t%s\t%s",
			o.ID.OrderID, o.ID.Version, o.MemberID, o.CreateTime, o.ExpiredAt,
			o.Price, yesNo(o.IsPaid), yesNo(o.IsDeleted))
		if withServer {
			line += "\t" + o.Server
		}
		_, _ = fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	c.io.Printf("\nPage %d/%d, total: %d orders\n", state.Page, state.TotalPages(), filtered)
	return nil
}
