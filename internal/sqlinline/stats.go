package sqlinline

const QImpactSummary = `--sql 3f7c91aa-52d4-4b7e-9c0e-8e2a6d41f05b
select
  total_volunteers,
  upcoming_events,
  total_events,
  total_hours,
  total_donations,
  total_donated
from vw_impact_summary;
`
